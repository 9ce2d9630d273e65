package main

import (
	"fmt"
	"io"
)

// printTextHelp explains the --text overlay syntax and its template
// variables.
func printTextHelp(w io.Writer) {
	fmt.Fprintln(w, `Each --text value is ANCHOR,HPOS,VPOS,TEXT.

ANCHOR sets the point of the text box its position is measured from:
  tl - top-left corner        tr - top-right corner
  tm - middle of the top edge bm - middle of the bottom edge
  bl - bottom-left corner     br - bottom-right corner

HPOS and VPOS are numbers between 0 and 1: how far the anchor sits from
the top-left corner of the page, as fractions of the page width and
height.

TEXT may reference these variables, prefixed with a $ sign (in most
shells the $ must be escaped or the value single-quoted):
  day      - current day of the month
  month    - current month
  year     - current year
  page     - current page number
  pages    - total number of pages
  filename - first input file name, without path or extension

Example:
  pdfcompose -f report.pdf -t 'br,0.95,0.95,$filename  $page/$pages'`)
}
