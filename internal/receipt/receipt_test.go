package receipt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snack-counter/internal/models"
	"snack-counter/internal/money"
)

func sampleOrder() models.Order {
	return models.Order{
		Number: "ORD_20261019_001",
		User:   "Ana",
		Cart: []models.CartLine{
			{Name: "Popcorn", Quantity: 2, LineTotal: 2000},
			{Name: "Soda", Quantity: 1, LineTotal: 500},
		},
		Total: 2500,
		Time:  "2026-10-19 18:30:05",
	}
}

func TestFormat(t *testing.T) {
	want := strings.Join([]string{
		"Order: ORD_20261019_001",
		"User: Ana",
		"Time: 2026-10-19 18:30:05",
		"  - Popcorn x2 = TSh 2,000",
		"  - Soda x1 = TSh 500",
		"Total: TSh 2,500",
		"----------------------------------------",
	}, "\n") + "\n"

	assert.Equal(t, want, Format(sampleOrder(), money.Default()))
}

func TestFormat_WithoutNumber(t *testing.T) {
	order := sampleOrder()
	order.Number = ""

	block := Format(order, money.Default())
	assert.True(t, strings.HasPrefix(block, "User: Ana\n"))
}

func TestSeparatorWidth(t *testing.T) {
	assert.Len(t, Separator, 40)
}

func TestWriter_AppendsBlocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.txt")
	w, err := NewWriter(path, money.Default())
	require.NoError(t, err)

	require.NoError(t, w.Append(sampleOrder()))
	second := sampleOrder()
	second.Number = "ORD_20261019_002"
	require.NoError(t, w.Append(second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)
	assert.Equal(t, 2, strings.Count(text, Separator+"\n"))
	assert.True(t, strings.HasSuffix(text, Separator+"\n"))
	assert.Less(t, strings.Index(text, "ORD_20261019_001"), strings.Index(text, "ORD_20261019_002"))
}

func TestWriter_KeepsExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.txt")
	require.NoError(t, os.WriteFile(path, []byte("earlier receipt\n"), 0o644))

	w, err := NewWriter(path, nil)
	require.NoError(t, err)
	require.NoError(t, w.Append(sampleOrder()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "earlier receipt\n"))
}

func TestWriter_OpenFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "orders.txt")
	w, err := NewWriter(path, nil)
	require.NoError(t, err)

	err = w.Append(sampleOrder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open receipt log")
}

func TestNewWriter_RequiresPath(t *testing.T) {
	_, err := NewWriter("  ", nil)
	require.Error(t, err)
}
