package io

import (
	"errors"

	"github.com/ezrec/brainfuck/translate"
)

var f = translate.From

var (
	// Buffer errors
	ErrBufferFull = errors.New(f("buffer full"))
)
