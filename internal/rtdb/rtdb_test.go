package rtdb

import (
	"bufio"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhayanand641064/InventoryApp/internal/domain"
)

func part(name string, createdAt int64) domain.Part {
	return domain.Part{PartName: name, CreatedAt: createdAt}
}

func TestDecodeSnapshotDropsBadChildren(t *testing.T) {
	raw := map[string]json.RawMessage{
		"-Na1": json.RawMessage(`{"id":"-Na1","partName":"Bolt M6","quantity":4}`),
		"-Na2": json.RawMessage(`"not an object"`),
		"-Na3": json.RawMessage(`{"id":"-Na3","partName":"Washer","quantity":"oops"}`),
		"-Na4": json.RawMessage(`{"partName":"Nut M6"}`),
	}

	parts := decodeSnapshot(raw, nil)
	require.Len(t, parts, 2)
	assert.Equal(t, "Bolt M6", parts[0].PartName)
	// The id falls back to the child key when the record omits it.
	assert.Equal(t, "-Na4", parts[1].ID)
	assert.Equal(t, "Nut M6", parts[1].PartName)
}

func TestDecodeSnapshotOrdersByKey(t *testing.T) {
	raw := map[string]json.RawMessage{
		"-Nc": json.RawMessage(`{"partName":"third"}`),
		"-Na": json.RawMessage(`{"partName":"first"}`),
		"-Nb": json.RawMessage(`{"partName":"second"}`),
	}

	parts := decodeSnapshot(raw, nil)
	require.Len(t, parts, 3)
	assert.Equal(t, "first", parts[0].PartName)
	assert.Equal(t, "second", parts[1].PartName)
	assert.Equal(t, "third", parts[2].PartName)
}

func TestDecodeSnapshotEmpty(t *testing.T) {
	assert.Empty(t, decodeSnapshot(nil, nil))
}

func TestToRecordServerTimestamp(t *testing.T) {
	rec := toRecord(part("Bolt M6", 0))
	assert.Equal(t, serverTimestamp, rec.CreatedAt)

	existing := part("Bolt M6", 1700000000000)
	assert.Equal(t, int64(1700000000000), toRecord(existing).CreatedAt)
}

func TestNextEvent(t *testing.T) {
	stream := "event: put\ndata: {\"path\":\"/\",\"data\":null}\n\n" +
		"event: keep-alive\ndata: null\n\n" +
		"event: cancel\ndata: null\n\n"
	scanner := bufio.NewScanner(strings.NewReader(stream))

	name, data, ok := nextEvent(scanner)
	require.True(t, ok)
	assert.Equal(t, "put", name)
	assert.Equal(t, `{"path":"/","data":null}`, data)

	name, _, ok = nextEvent(scanner)
	require.True(t, ok)
	assert.Equal(t, "keep-alive", name)

	name, _, ok = nextEvent(scanner)
	require.True(t, ok)
	assert.Equal(t, "cancel", name)

	_, _, ok = nextEvent(scanner)
	assert.False(t, ok)
}
