package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"semicloud-gen-bot/internal/model"
	"semicloud-gen-bot/internal/platform"
	"semicloud-gen-bot/internal/store"
)

// cmdGen draws one account and delivers it by DM.
func (d *Dispatcher) cmdGen(ctx context.Context, msg model.ChatMessage, args []string) error {
	if len(args) < 1 {
		d.reply(ctx, msg, d.usage("Please specify a service.", "gen minecraft"))
		return nil
	}
	service := store.NormalizeService(args[0])

	result, err := d.generator.Generate(ctx, msg.AuthorID, service)
	switch {
	case err == nil:
		d.reply(ctx, msg, d.embed(
			"Account Delivered",
			fmt.Sprintf("Check your DMs for the **%s** account!\n\n**Remember to vouch in** #%s", result.Service, d.vouchChannel),
			platform.ColorSuccess,
		))
		return nil
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrOutOfStock):
		// Unknown service and empty stock read the same to the requester.
		d.reply(ctx, msg, d.embed(
			"Out of Stock",
			fmt.Sprintf("No accounts available for **%s**.\nTry again later or check other services with `%sstock`.", service, d.prefix),
			platform.ColorError,
		))
		return nil
	case errors.Is(err, store.ErrDeliveryBlocked):
		d.reply(ctx, msg, d.embed(
			"DMs Disabled",
			"I couldn't send you the account because your DMs are disabled.\nPlease enable DMs and try again.",
			platform.ColorError,
		))
		return nil
	default:
		return err
	}
}

// cmdStock lists every service with its count, paginated.
func (d *Dispatcher) cmdStock(ctx context.Context, msg model.ChatMessage) error {
	names, err := d.inventory.ListServices(ctx)
	if err != nil {
		return err
	}

	if len(names) == 0 {
		d.reply(ctx, msg, d.embed(
			"No Stock Available",
			"There are currently no services with available stock.",
			platform.ColorError,
		))
		return nil
	}

	services := make([]serviceStock, 0, len(names))
	for _, name := range names {
		count, err := d.inventory.Count(ctx, name)
		if err != nil {
			return err
		}
		services = append(services, serviceStock{name: name, count: count})
	}

	for _, page := range d.stockPages(services) {
		d.reply(ctx, msg, page)
	}
	return nil
}

// cmdVouches reports the author's (or the given user's) vouch count.
func (d *Dispatcher) cmdVouches(ctx context.Context, msg model.ChatMessage, args []string) error {
	target := msg.AuthorID
	label := msg.AuthorName
	if len(args) > 0 {
		target = parseUserArg(args[0])
		label = target
	}
	if label == "" {
		label = target
	}

	count, err := d.vouches.Get(ctx, target)
	if err != nil {
		return err
	}

	d.reply(ctx, msg, d.embed(
		"Vouch Count",
		fmt.Sprintf("**%s** has `%d` vouches.", label, count),
		platform.ColorInfo,
	))
	return nil
}

// cmdList shows the general and admin command pages.
func (d *Dispatcher) cmdList(ctx context.Context, msg model.ChatMessage) error {
	general := d.embed("Available Commands", "**General Commands**", platform.ColorPrimary)
	for _, c := range [][2]string{
		{"gen <service>", "Generate an account from stock"},
		{"stock", "View available stock counts"},
		{"vouches [user]", "Check a user's vouch count"},
		{"cmdlist", "Show this command list"},
	} {
		general.AddField(fmt.Sprintf("`%s%s`", d.prefix, c[0]), c[1], false)
	}
	d.reply(ctx, msg, general)

	admin := d.embed("Admin Commands", "These commands require admin permissions.", platform.ColorPrimary)
	for _, c := range [][2]string{
		{"stock_add <service>", "Add stock via file upload"},
		{"create <service>", "Create new service file"},
		{"clear <service>", "Clear all stock for a service"},
		{"drop <service> <count>", "Drop accounts into channel"},
		{"remove <user> <count>", "Remove vouches from a user"},
	} {
		admin.AddField(fmt.Sprintf("`%s%s`", d.prefix, c[0]), c[1], false)
	}
	d.reply(ctx, msg, admin)
	return nil
}

// cmdStockAdd appends the lines of an attached .txt file to a service.
func (d *Dispatcher) cmdStockAdd(ctx context.Context, msg model.ChatMessage, args []string) error {
	if len(args) < 1 {
		d.reply(ctx, msg, d.usage("Please specify a service.", "stock_add minecraft"))
		return nil
	}
	service := store.NormalizeService(args[0])

	if msg.Attachment == nil {
		d.reply(ctx, msg, d.embed(
			"Missing File",
			"Please upload a .txt file with accounts.",
			platform.ColorError,
		))
		return nil
	}
	if !strings.HasSuffix(strings.ToLower(msg.Attachment.Filename), ".txt") {
		d.reply(ctx, msg, d.embed(
			"Invalid File",
			"Please upload a .txt file.",
			platform.ColorError,
		))
		return nil
	}

	var items []string
	for _, line := range strings.Split(msg.Attachment.Content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			items = append(items, line)
		}
	}

	total, err := d.inventory.Append(ctx, service, items)
	if err != nil {
		return err
	}

	d.reply(ctx, msg, d.embed(
		"Stock Added",
		fmt.Sprintf("Successfully added `%d` accounts to **%s** stock. New total: `%d`.", len(items), service, total),
		platform.ColorSuccess,
	))
	return nil
}

// cmdCreate creates a new empty service.
func (d *Dispatcher) cmdCreate(ctx context.Context, msg model.ChatMessage, args []string) error {
	if len(args) < 1 {
		d.reply(ctx, msg, d.usage("Please specify a service.", "create minecraft"))
		return nil
	}
	service := store.NormalizeService(args[0])

	err := d.inventory.Create(ctx, service)
	if errors.Is(err, store.ErrAlreadyExists) {
		d.reply(ctx, msg, d.embed(
			"Service Exists",
			fmt.Sprintf("**%s** already exists.", service),
			platform.ColorError,
		))
		return nil
	}
	if err != nil {
		return err
	}

	d.reply(ctx, msg, d.embed(
		"Service Created",
		fmt.Sprintf("Created new service: **%s**", service),
		platform.ColorSuccess,
	))
	return nil
}

// cmdClear removes all stock from a service.
func (d *Dispatcher) cmdClear(ctx context.Context, msg model.ChatMessage, args []string) error {
	if len(args) < 1 {
		d.reply(ctx, msg, d.usage("Please specify a service.", "clear minecraft"))
		return nil
	}
	service := store.NormalizeService(args[0])

	removed, err := d.inventory.Clear(ctx, service)
	if errors.Is(err, store.ErrNotFound) {
		d.reply(ctx, msg, d.embed(
			"Service Not Found",
			fmt.Sprintf("**%s** does not exist.", service),
			platform.ColorError,
		))
		return nil
	}
	if err != nil {
		return err
	}

	d.reply(ctx, msg, d.embed(
		"Stock Cleared",
		fmt.Sprintf("Cleared `%d` accounts from **%s**.", removed, service),
		platform.ColorSuccess,
	))
	return nil
}

// cmdDrop previews the first N accounts without consuming them.
func (d *Dispatcher) cmdDrop(ctx context.Context, msg model.ChatMessage, args []string) error {
	if len(args) < 1 {
		d.reply(ctx, msg, d.usage("Please specify a service.", "drop minecraft 3"))
		return nil
	}
	service := store.NormalizeService(args[0])

	count := 1
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			d.reply(ctx, msg, d.usage("Count must be a positive number.", "drop minecraft 3"))
			return nil
		}
		count = n
	}

	dropped, err := d.inventory.PeekMany(ctx, service, count)
	if errors.Is(err, store.ErrNotFound) {
		d.reply(ctx, msg, d.embed(
			"Service Not Found",
			fmt.Sprintf("**%s** does not exist.", service),
			platform.ColorError,
		))
		return nil
	}
	if err != nil {
		return err
	}

	if len(dropped) == 0 {
		d.reply(ctx, msg, d.embed(
			"Out of Stock",
			fmt.Sprintf("No accounts available for **%s**.", service),
			platform.ColorError,
		))
		return nil
	}

	lines := make([]string, len(dropped))
	for i, acc := range dropped {
		lines[i] = fmt.Sprintf("`%s`", acc)
	}

	out := d.embed(
		"Accounts Dropped",
		fmt.Sprintf("Dropped `%d` **%s** accounts:", len(dropped), service),
		platform.ColorInfo,
	)
	out.AddField("Accounts", strings.Join(lines, "\n"), false)
	d.reply(ctx, msg, out)
	return nil
}

// cmdRemove decrements a user's vouch counter.
func (d *Dispatcher) cmdRemove(ctx context.Context, msg model.ChatMessage, args []string) error {
	if len(args) < 1 {
		d.reply(ctx, msg, d.usage("Please specify a user.", "remove @user 1"))
		return nil
	}
	target := parseUserArg(args[0])

	count := 1
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			d.reply(ctx, msg, d.usage("Count must be a positive number.", "remove @user 1"))
			return nil
		}
		count = n
	}

	remaining, err := d.vouches.Decrement(ctx, target, count)
	if errors.Is(err, store.ErrNoBalance) {
		d.reply(ctx, msg, d.embed(
			"No Vouches",
			fmt.Sprintf("**%s** has no vouches to remove.", target),
			platform.ColorError,
		))
		return nil
	}
	if err != nil {
		return err
	}

	d.reply(ctx, msg, d.embed(
		"Vouches Removed",
		fmt.Sprintf("Removed `%d` vouches from **%s**.\nNew count: `%d`", count, target, remaining),
		platform.ColorSuccess,
	))
	return nil
}
