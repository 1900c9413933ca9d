package errors_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/pokebattle-api/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "not found error",
			code:     errors.CodeNotFound,
			message:  "pokemon not found",
			expected: "NOT_FOUND: pokemon not found",
		},
		{
			name:     "invalid argument error",
			code:     errors.CodeInvalidArgument,
			message:  "invalid input",
			expected: "INVALID_ARGUMENT: invalid input",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Assert().Equal(tc.expected, err.Error())
			s.Assert().Equal(tc.code, err.Code)
			s.Assert().Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestErrorWithMeta() {
	err := errors.NotFound("pokemon not found").
		WithMeta("name", "missingno").
		WithMeta("status", 404)

	s.Assert().Equal("missingno", err.Meta["name"])
	s.Assert().Equal(404, err.Meta["status"])
}

func (s *ErrorsTestSuite) TestWrap() {
	baseErr := fmt.Errorf("connection refused")
	wrapped := errors.Wrap(baseErr, "failed to fetch pokemon")

	s.Assert().Equal(errors.CodeInternal, wrapped.Code)
	s.Assert().Equal("failed to fetch pokemon", wrapped.Message)
	s.Assert().Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapPreservesCode() {
	baseErr := errors.NotFound("upstream returned 404")
	wrapped := errors.Wrap(baseErr, "pokemon not found")

	s.Assert().Equal(errors.CodeNotFound, wrapped.Code)
	s.Assert().Equal("pokemon not found", wrapped.Message)
	s.Assert().Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapContextErrors() {
	s.Assert().Equal(errors.CodeDeadlineExceeded, errors.Wrap(context.DeadlineExceeded, "timed out").Code)
	s.Assert().Equal(errors.CodeCanceled, errors.Wrap(context.Canceled, "canceled").Code)
	s.Assert().True(errors.IsDeadlineExceeded(fmt.Errorf("get: %w", context.DeadlineExceeded)))
}

func (s *ErrorsTestSuite) TestWrapWithCode() {
	baseErr := errors.NotFound("pokemon not found").WithMeta("name", "missingno")
	wrapped := errors.WrapWithCode(baseErr, errors.CodeInvalidArgument, "One or both Pokemon not found")

	s.Assert().Equal(errors.CodeInvalidArgument, wrapped.Code)
	s.Assert().Equal("missingno", wrapped.Meta["name"])
	s.Assert().True(errors.IsInvalidArgument(wrapped))
	s.Assert().True(errors.IsNotFound(wrapped.Unwrap()))
}

func (s *ErrorsTestSuite) TestWrapNil() {
	s.Assert().Nil(errors.Wrap(nil, "should be nil"))
	s.Assert().Nil(errors.WrapWithCode(nil, errors.CodeNotFound, "should be nil"))
}

func (s *ErrorsTestSuite) TestConstructorFunctions() {
	testCases := []struct {
		name        string
		constructor func() *errors.Error
		code        errors.Code
	}{
		{"NotFound", func() *errors.Error { return errors.NotFound("test") }, errors.CodeNotFound},
		{"InvalidArgument", func() *errors.Error { return errors.InvalidArgument("test") }, errors.CodeInvalidArgument},
		{"Internal", func() *errors.Error { return errors.Internal("test") }, errors.CodeInternal},
		{"Unavailable", func() *errors.Error { return errors.Unavailable("test") }, errors.CodeUnavailable},
		{"FailedPrecondition", func() *errors.Error { return errors.FailedPrecondition("test") }, errors.CodeFailedPrecondition},
		{"DeadlineExceeded", func() *errors.Error { return errors.DeadlineExceeded("test") }, errors.CodeDeadlineExceeded},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := tc.constructor()
			s.Assert().Equal(tc.code, err.Code)
			s.Assert().Equal("test", err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestErrorIs() {
	err1 := errors.NotFound("test")
	err2 := errors.NotFound("other")
	err3 := errors.InvalidArgument("test")

	s.Assert().True(err1.Is(err2))
	s.Assert().False(err1.Is(err3))
}

func (s *ErrorsTestSuite) TestGetters() {
	err := errors.Unavailablef("pokeapi returned %d", 503).WithMeta("url", "https://example")
	wrapped := errors.Wrap(err, "failed to fetch pokemon")
	stdErr := fmt.Errorf("standard error")

	s.Assert().Equal(errors.CodeUnavailable, errors.GetCode(wrapped))
	s.Assert().Equal(errors.CodeInternal, errors.GetCode(stdErr))
	s.Assert().Equal(errors.CodeOK, errors.GetCode(nil))

	s.Assert().Equal("https://example", errors.GetMeta(wrapped)["url"])
	s.Assert().Nil(errors.GetMeta(stdErr))

	s.Assert().Equal("failed to fetch pokemon", errors.GetMessage(wrapped))
	s.Assert().Equal("standard error", errors.GetMessage(stdErr))
	s.Assert().Equal("", errors.GetMessage(nil))
}

func (s *ErrorsTestSuite) TestHTTPStatus() {
	testCases := []struct {
		code     errors.Code
		expected int
	}{
		{errors.CodeOK, http.StatusOK},
		{errors.CodeNotFound, http.StatusNotFound},
		{errors.CodeInvalidArgument, http.StatusBadRequest},
		{errors.CodeDeadlineExceeded, http.StatusGatewayTimeout},
		{errors.CodeInternal, http.StatusInternalServerError},
		{errors.CodeUnavailable, http.StatusBadGateway},
		{errors.Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		s.Run(string(tc.code), func() {
			s.Assert().Equal(tc.expected, tc.code.HTTPStatus())
		})
	}
}
