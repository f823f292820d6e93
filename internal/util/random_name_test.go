package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetRandomName(t *testing.T) {
	a := assert.New(t)

	name := GetRandomName()
	parts := strings.Split(name, " ")
	a.Len(parts, 2)
	a.Contains(adjectives, parts[0])
	a.Contains(animals, parts[1])
}
