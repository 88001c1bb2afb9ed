package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsWrapTheirClass(t *testing.T) {
	assert.True(t, errors.Is(Parameter("bad input"), ErrParameter))
	assert.True(t, errors.Is(Permission("no access"), ErrPermission))
	assert.True(t, errors.Is(Authentication("who are you"), ErrAuthentication))
	assert.True(t, errors.Is(Integrity("still referenced"), ErrIntegrity))
	assert.True(t, errors.Is(Backend(errors.New("db down")), ErrBackend))
}

func TestClassesStayDistinct(t *testing.T) {
	err := Parameter("bad input")
	assert.False(t, errors.Is(err, ErrPermission))
	assert.False(t, errors.Is(err, ErrAuthentication))
	assert.False(t, errors.Is(err, ErrIntegrity))
	assert.False(t, errors.Is(err, ErrBackend))
}

func TestMessageStripsClassPrefix(t *testing.T) {
	err := Parameter("user with alias \"%s\" already exists", "jdoe")
	assert.Equal(t, "user with alias \"jdoe\" already exists", Message(err))

	err = Authentication("incorrect user name or password")
	assert.Equal(t, "incorrect user name or password", Message(err))
}

func TestMessagePassesThroughUnclassifiedErrors(t *testing.T) {
	err := errors.New("plain failure")
	assert.Equal(t, "plain failure", Message(err))
}
