package model_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/sector-commander/internal/model"
)

// Property 3: inbox bound — after inserting >=21 non-saved messages, the
// non-saved count is exactly the cap and the oldest non-saved one is gone;
// saved messages are never evicted.
func TestInboxEvictsOldestNonSaved(t *testing.T) {
	p := model.NewPlayer("Nova", nil, 0, 0)
	const cap = 20

	saved := model.NewMessage("hq", "Nova", "Keep this", "pinned", 1000)
	p.AddMessage(saved, cap)
	ok, _ := p.SaveMessage(saved.ID, cap)
	require.True(t, ok)

	var firstNonSavedID string
	for i := 0; i < 25; i++ {
		msg := model.NewMessage("hq", "Nova", fmt.Sprintf("msg-%d", i), "body", float64(1001+i))
		if i == 0 {
			firstNonSavedID = msg.ID
		}
		p.AddMessage(msg, cap)
	}

	nonSaved := 0
	foundFirst := false
	foundSaved := false
	for _, m := range p.Messages {
		if m.ID == saved.ID {
			foundSaved = true
		}
		if m.ID == firstNonSavedID {
			foundFirst = true
		}
		if !m.IsSaved {
			nonSaved++
		}
	}
	assert.Equal(t, cap, nonSaved)
	assert.False(t, foundFirst, "oldest non-saved message should have been evicted")
	assert.True(t, foundSaved, "saved message must never be evicted")
}

func TestSaveMessageRefusesWhenArchiveFull(t *testing.T) {
	p := model.NewPlayer("Nova", nil, 0, 0)
	const archiveCap = 20
	var last *model.Message
	for i := 0; i < archiveCap; i++ {
		msg := model.NewMessage("hq", "Nova", "x", "y", float64(i))
		p.AddMessage(msg, 100)
		ok, _ := p.SaveMessage(msg.ID, archiveCap)
		require.True(t, ok)
		last = msg
	}
	overflow := model.NewMessage("hq", "Nova", "overflow", "z", 999)
	p.AddMessage(overflow, 100)
	ok, reason := p.SaveMessage(overflow.ID, archiveCap)
	assert.False(t, ok)
	assert.Equal(t, "Archive limit reached.", reason)

	// Re-saving an already-saved message is a harmless no-op success.
	ok2, _ := p.SaveMessage(last.ID, archiveCap)
	assert.True(t, ok2)
}

func TestMessageBodyClampedAt500Chars(t *testing.T) {
	body := make([]byte, 600)
	for i := range body {
		body[i] = 'x'
	}
	msg := model.NewMessage("a", "b", "subj", string(body), 0)
	assert.Len(t, msg.Body, 500)
}

func TestNormalizeInventoryDropsNonPositiveKeys(t *testing.T) {
	p := model.NewPlayer("Nova", nil, 0, 0)
	p.Inventory["Fuel Cells"] = 3
	p.Inventory["Water"] = 0
	p.Inventory["Grain"] = -2
	p.NormalizeInventory()
	assert.Equal(t, map[string]int{"Fuel Cells": 3}, p.Inventory)
}
