package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPtr(t *testing.T) {
	p := Ptr(int64(1277))
	assert.Equal(t, int64(1277), *p)

	s := "LL"
	q := Ptr(s)
	s = "PRP"
	assert.Equal(t, "LL", *q)
}
