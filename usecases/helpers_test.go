package usecases

import "github.com/cockroachdb/errors"

var assertErr = errors.New("unexpected storage failure")
