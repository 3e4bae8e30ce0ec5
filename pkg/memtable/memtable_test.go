package memtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemTable(t *testing.T) {
	m := New(16 * 1024)

	m.SetBytes("key01", []byte("value01"), 0)
	m.SetBytes("key02", []byte("value02"), 0)

	data, ok := m.GetBytes("key01")
	assert.Equal(t, true, ok)
	assert.Equal(t, []byte("value01"), data)

	data, ok = m.GetBytes("key02")
	assert.Equal(t, true, ok)
	assert.Equal(t, []byte("value02"), data)

	data, ok = m.GetBytes("key03")
	assert.Equal(t, false, ok)
	assert.Nil(t, data)

	m.Delete("key01")
	data, ok = m.GetBytes("key01")
	assert.Equal(t, false, ok)
	assert.Nil(t, data)
}
