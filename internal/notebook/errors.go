package notebook

import "errors"

// ErrInvalidNotebook is returned when .ipynb data is not a version 4
// notebook with a cells array.
var ErrInvalidNotebook = errors.New("invalid notebook")
