package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"semicloud-gen-bot/internal/model"
	"semicloud-gen-bot/internal/platform"
	"semicloud-gen-bot/internal/store"
)

// Generator orchestrates a generation request: draw one credential, deliver
// it by DM, append the audit record.
//
// When delivery fails the drawn credential is NOT re-inserted into stock; an
// UNDELIVERED audit line is written instead so operators can recover it.
type Generator struct {
	inventory store.InventoryStore
	genLog    store.GenLog
	messenger platform.Messenger
	watermark string
}

// NewGenerator creates a generator. Returns nil if any required dependency
// is missing.
func NewGenerator(
	inventory store.InventoryStore,
	genLog store.GenLog,
	messenger platform.Messenger,
	watermark string,
) *Generator {
	if inventory == nil || genLog == nil || messenger == nil {
		return nil
	}
	return &Generator{
		inventory: inventory,
		genLog:    genLog,
		messenger: messenger,
		watermark: watermark,
	}
}

// GenResult reports a completed generation.
type GenResult struct {
	Service string
	Account string
}

// Generate draws and delivers one credential for the requester.
//
// Typed failures: store.ErrNotFound (unknown service), store.ErrOutOfStock
// (empty stock), store.ErrDeliveryBlocked (DMs disabled; the item stays
// removed and is audited as undelivered), store.ErrPersistence (audit write
// failed after delivery). Other delivery failures pass through unchanged,
// also leaving the item removed and audited.
func (g *Generator) Generate(ctx context.Context, requesterID, service string) (*GenResult, error) {
	service = store.NormalizeService(service)

	account, err := g.inventory.PopRandom(ctx, service)
	if err != nil {
		return nil, err
	}

	dm := &platform.Message{
		Title: "Account Generated",
		Description: fmt.Sprintf(
			"Here's your **%s** account:\n```%s```\n\n**Important:**\n- Vouch in #bot-vouch after claiming\n- Do not share this account",
			service, account),
		Color:  platform.ColorSuccess,
		Footer: g.watermark,
	}

	if err := g.messenger.SendDirect(ctx, requesterID, dm); err != nil {
		log.Printf("[Generator] DM delivery failed for user %s, service %s: %v", requesterID, service, err)

		rec := model.GenRecord{
			UserID:      requesterID,
			Service:     service,
			Account:     account,
			Undelivered: true,
			CreatedAt:   time.Now(),
		}
		if logErr := g.genLog.Record(ctx, rec); logErr != nil {
			return nil, logErr
		}
		// store.ErrDeliveryBlocked for disabled DMs; anything else (rate
		// limit, outage) passes through as-is.
		return nil, err
	}

	rec := model.GenRecord{
		UserID:    requesterID,
		Service:   service,
		Account:   account,
		CreatedAt: time.Now(),
	}
	if err := g.genLog.Record(ctx, rec); err != nil {
		// Delivered but unaudited: the caller must see this failure.
		return nil, err
	}

	return &GenResult{Service: service, Account: account}, nil
}
