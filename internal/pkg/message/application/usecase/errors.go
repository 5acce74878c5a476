package usecase

import "fmt"

// ErrPersistence indicates an infrastructure/repository failure inside a use case.
var ErrPersistence = fmt.Errorf("message use case persistence error")
