package multierror

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMultiError_Error(t *testing.T) {
	m := New[string]()
	m.Add("1", errors.New("error1"))
	assert.Equal(t, "1:error1", m.Error())
}

func TestMultiError_Combined(t *testing.T) {
	m := New[string]()
	assert.Nil(t, m.Combined())
	m.Add("1", errors.New("error"))
	assert.NotNil(t, m.Combined())
}

func TestMultiError_Keys(t *testing.T) {
	m := New[string]()
	m.Add("1", errors.New("error1"))
	m.Add("2", errors.New("error2"))
	assert.ElementsMatch(t, []string{"1", "2"}, m.Keys())
}

func TestMultiError_As(t *testing.T) {
	m := New[int]()
	m.Add(1, errors.New("error1"))

	var target *Error[int]

	assert.True(t, errors.As(m.Combined(), &target))
	assert.Equal(t, []int{1}, target.Keys())
}
