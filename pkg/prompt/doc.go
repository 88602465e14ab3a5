// Package prompt fills a bound form from the terminal. Each schema field is
// asked in order, the answer is written into the form's record and the form's
// derived errors decide whether the field has to be asked again.
package prompt
