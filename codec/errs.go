package codec

import "errors"

var ErrNotDocument = errors.New("not a document")
