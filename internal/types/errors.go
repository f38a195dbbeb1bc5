// Copyright 2023 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package types

import "github.com/pkg/errors"

// Kind enumerates the error taxonomy the Query Executor surfaces to
// its caller. Kind is not a general-purpose error type; it classifies
// the small, fixed set of conditions the executor itself detects.
type Kind int

// These are the only legal Kind values.
const (
	KindUnknown Kind = iota
	KindFailedPrecondition
	KindInternal
	KindAlreadyExists
	KindNotFound
	KindInvalidArgument
	KindDataLoss
	KindUnimplemented
)

func (k Kind) String() string {
	switch k {
	case KindFailedPrecondition:
		return "FailedPrecondition"
	case KindInternal:
		return "Internal"
	case KindAlreadyExists:
		return "AlreadyExists"
	case KindNotFound:
		return "NotFound"
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindDataLoss:
		return "DataLoss"
	case KindUnimplemented:
		return "Unimplemented"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by every QueryExecutor and
// Schema Lifecycle Manager operation that fails. The Cause, when
// present, is the underlying driver or stdlib error and is preserved
// so that %+v formatting still yields its stack trace.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Msg
	}
	if e.Msg == "" {
		return e.Cause.Error()
	}
	return e.Msg + ": " + e.Cause.Error()
}

// Unwrap allows errors.Is/errors.As to see through to the cause.
func (e *Error) Unwrap() error { return e.Cause }

// New constructs an *Error of the given Kind with no wrapped cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap constructs an *Error of the given Kind, attaching cause with a
// stack trace if it does not already carry one.
func Wrap(kind Kind, cause error, msg string) *Error {
	if cause == nil {
		return New(kind, msg)
	}
	if _, ok := cause.(interface{ StackTrace() errors.StackTrace }); !ok {
		cause = errors.WithStack(cause)
	}
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

// AsError reports whether err is, or wraps, a *Error, returning it if
// so. Mirrors the IsLeaseBusy helper shape used elsewhere in this
// lineage for typed-error inspection.
func AsError(err error) (e *Error, ok bool) {
	ok = errors.As(err, &e)
	return e, ok
}

// KindOf returns the Kind of err if it is an *Error, or KindUnknown
// otherwise.
func KindOf(err error) Kind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err is a NotFound *Error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsAlreadyExists reports whether err is an AlreadyExists *Error.
func IsAlreadyExists(err error) bool { return KindOf(err) == KindAlreadyExists }

// IsInvalidArgument reports whether err is an InvalidArgument *Error.
func IsInvalidArgument(err error) bool { return KindOf(err) == KindInvalidArgument }

// IsFailedPrecondition reports whether err is a FailedPrecondition
// *Error.
func IsFailedPrecondition(err error) bool { return KindOf(err) == KindFailedPrecondition }

// IsDataLoss reports whether err is a DataLoss *Error.
func IsDataLoss(err error) bool { return KindOf(err) == KindDataLoss }
