package pure_utils

import (
	"strconv"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3"}, Map([]int{1, 2, 3}, strconv.Itoa))
	assert.Empty(t, Map([]int{}, strconv.Itoa))
}

func TestMapErr(t *testing.T) {
	out, err := MapErr([]string{"1", "2"}, strconv.Atoi)
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2}, out)

	_, err = MapErr([]string{"1", "x"}, func(s string) (int, error) {
		if s == "x" {
			return 0, errors.New("not a number")
		}
		return strconv.Atoi(s)
	})
	assert.Error(t, err)
}

func TestNilIfEmpty(t *testing.T) {
	assert.Nil(t, NilIfEmpty(""))
	assert.Equal(t, "x", *NilIfEmpty("x"))
}
