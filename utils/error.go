package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

var ErrorDatasetNotLoaded = errors.New("dataset not loaded")

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
