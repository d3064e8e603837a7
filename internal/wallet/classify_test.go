package wallet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/boltzap/boltzap/internal/node"
)

func TestClassify_MapsParserResult(t *testing.T) {
	t.Parallel()
	client := newFakeClient()
	client.parseFn = parseAs(node.Bolt11{Invoice: "lnbc1...", AmountSat: 2000})

	dest := Classify(context.Background(), client, "lnbc1...")

	invoice, ok := dest.(node.Bolt11)
	assert.True(t, ok)
	assert.Equal(t, uint64(2000), invoice.AmountSat)
}

func TestClassify_ParseFailureIsUnrecognized(t *testing.T) {
	t.Parallel()
	client := newFakeClient()
	client.parseFn = func(string) (node.Destination, error) {
		return nil, assert.AnError
	}

	dest := Classify(context.Background(), client, "definitely not money")

	unrec, ok := dest.(node.Unrecognized)
	assert.True(t, ok, "parse failures map to Unrecognized, never an error")
	assert.Equal(t, "definitely not money", unrec.Raw)
}

func TestClassify_NilResultIsUnrecognized(t *testing.T) {
	t.Parallel()
	client := newFakeClient()
	client.parseFn = func(string) (node.Destination, error) {
		return nil, nil
	}

	_, ok := Classify(context.Background(), client, "x").(node.Unrecognized)
	assert.True(t, ok)
}

func TestClassify_EmptyInputSkipsParser(t *testing.T) {
	t.Parallel()
	client := newFakeClient()
	parsed := false
	client.parseFn = func(string) (node.Destination, error) {
		parsed = true
		return node.Unrecognized{}, nil
	}

	_, ok := Classify(context.Background(), client, "   ").(node.Unrecognized)
	assert.True(t, ok)
	assert.False(t, parsed)
}

func TestClassify_TrimsWhitespace(t *testing.T) {
	t.Parallel()
	client := newFakeClient()
	var got string
	client.parseFn = func(raw string) (node.Destination, error) {
		got = raw
		return node.Bolt11{Invoice: raw}, nil
	}

	Classify(context.Background(), client, "  lnbc1...  ")
	assert.Equal(t, "lnbc1...", got)
}
