package command

import (
	"context"
	"fmt"
	"log"
	"strings"

	"semicloud-gen-bot/internal/model"
	"semicloud-gen-bot/internal/platform"
	"semicloud-gen-bot/internal/service"
	"semicloud-gen-bot/internal/store"
)

// vouchKeywords trigger the automatic vouch counter in the vouch channel.
var vouchKeywords = []string{"legit", "vouch", "thanks"}

// PrivilegePredicate decides whether the author of a message may run
// privileged commands. Supplied by the hosting layer; the dispatcher never
// inspects platform role objects itself.
type PrivilegePredicate func(msg model.ChatMessage) bool

// Config holds the dispatcher's dependencies and bot settings.
type Config struct {
	Inventory    store.InventoryStore
	Vouches      store.VouchStore
	Generator    *service.Generator
	Messenger    platform.Messenger
	IsPrivileged PrivilegePredicate

	Prefix       string
	Watermark    string
	VouchChannel string
	BotUserID    string
}

// Dispatcher parses inbound chat messages, enforces the privilege predicate,
// runs one store operation, and renders the result.
type Dispatcher struct {
	inventory    store.InventoryStore
	vouches      store.VouchStore
	generator    *service.Generator
	messenger    platform.Messenger
	isPrivileged PrivilegePredicate

	prefix       string
	watermark    string
	vouchChannel string
	botUserID    string
}

// New creates a dispatcher.
func New(cfg Config) *Dispatcher {
	return &Dispatcher{
		inventory:    cfg.Inventory,
		vouches:      cfg.Vouches,
		generator:    cfg.Generator,
		messenger:    cfg.Messenger,
		isPrivileged: cfg.IsPrivileged,
		prefix:       cfg.Prefix,
		watermark:    cfg.Watermark,
		vouchChannel: cfg.VouchChannel,
		botUserID:    cfg.BotUserID,
	}
}

// HandleMessage processes one inbound chat message: the vouch auto-trigger
// first, then command dispatch. Typed failures are rendered to the channel
// and not returned; only unexpected errors propagate (after a generic
// message has been sent) so the operator log sees them.
func (d *Dispatcher) HandleMessage(ctx context.Context, msg model.ChatMessage) error {
	if msg.AuthorIsBot {
		return nil
	}

	if msg.ChannelName == d.vouchChannel {
		if err := d.handleVouchTrigger(ctx, msg); err != nil {
			return err
		}
	}

	inv, ok := Parse(d.prefix, msg.Content)
	if !ok {
		return nil
	}

	return d.dispatch(ctx, msg, inv)
}

func (d *Dispatcher) dispatch(ctx context.Context, msg model.ChatMessage, inv Invocation) error {
	var err error

	switch inv.Name {
	case "gen":
		err = d.cmdGen(ctx, msg, inv.Args)
	case "stock":
		err = d.cmdStock(ctx, msg)
	case "vouches":
		err = d.cmdVouches(ctx, msg, inv.Args)
	case "cmdlist":
		err = d.cmdList(ctx, msg)
	case "stock_add":
		err = d.privileged(ctx, msg, func() error { return d.cmdStockAdd(ctx, msg, inv.Args) })
	case "create":
		err = d.privileged(ctx, msg, func() error { return d.cmdCreate(ctx, msg, inv.Args) })
	case "clear":
		err = d.privileged(ctx, msg, func() error { return d.cmdClear(ctx, msg, inv.Args) })
	case "drop":
		err = d.privileged(ctx, msg, func() error { return d.cmdDrop(ctx, msg, inv.Args) })
	case "remove":
		err = d.privileged(ctx, msg, func() error { return d.cmdRemove(ctx, msg, inv.Args) })
	default:
		// Unknown commands are ignored, like any other chat noise.
		return nil
	}

	if err != nil {
		log.Printf("[Dispatcher] Command %q from user %s failed: %v", inv.Name, msg.AuthorID, err)
		d.reply(ctx, msg, d.genericError(err))
		return err
	}
	return nil
}

// privileged runs fn only when the message author passes the privilege
// predicate.
func (d *Dispatcher) privileged(ctx context.Context, msg model.ChatMessage, fn func() error) error {
	if d.isPrivileged == nil || !d.isPrivileged(msg) {
		d.reply(ctx, msg, d.accessDenied())
		return nil
	}
	return fn()
}

// reply sends a rendered message back to the originating channel. Send
// failures are logged, not propagated: the store operation already
// completed.
func (d *Dispatcher) reply(ctx context.Context, msg model.ChatMessage, out *platform.Message) {
	if err := d.messenger.SendChannel(ctx, msg.ChannelID, out); err != nil {
		log.Printf("[Dispatcher] Failed to send channel message: %v", err)
	}
}

// handleVouchTrigger increments the author's counter when a message in the
// vouch channel mentions the bot and contains a trigger keyword. Only the
// first qualifying mention counts.
func (d *Dispatcher) handleVouchTrigger(ctx context.Context, msg model.ChatMessage) error {
	content := strings.ToLower(msg.Content)

	keyword := false
	for _, k := range vouchKeywords {
		if strings.Contains(content, k) {
			keyword = true
			break
		}
	}
	if !keyword {
		return nil
	}

	for _, mention := range msg.Mentions {
		if mention != d.botUserID {
			continue
		}

		count, err := d.vouches.Increment(ctx, msg.AuthorID, 1)
		if err != nil {
			d.reply(ctx, msg, d.genericError(err))
			return err
		}

		d.reply(ctx, msg, d.embed(
			"Vouch Recorded",
			fmt.Sprintf("Thanks for your vouch! You now have `%d` vouches.", count),
			platform.ColorSuccess,
		))
		break
	}
	return nil
}
