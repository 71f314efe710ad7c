package command

import (
	"fmt"

	"semicloud-gen-bot/internal/platform"
)

// servicesPerPage is how many services a single stock page shows.
const servicesPerPage = 10

// embed builds a message with the watermark footer applied.
func (d *Dispatcher) embed(title, description string, color int) *platform.Message {
	return &platform.Message{
		Title:       title,
		Description: description,
		Color:       color,
		Footer:      d.watermark,
	}
}

// serviceStock pairs a service name with its count for stock pages.
type serviceStock struct {
	name  string
	count int
}

// stockPages renders the stock listing into pages of servicesPerPage
// services each, with a page footer.
func (d *Dispatcher) stockPages(services []serviceStock) []*platform.Message {
	var pages []*platform.Message
	total := (len(services) + servicesPerPage - 1) / servicesPerPage

	for start := 0; start < len(services); start += servicesPerPage {
		end := start + servicesPerPage
		if end > len(services) {
			end = len(services)
		}

		page := &platform.Message{
			Title:       "Available Stock",
			Description: fmt.Sprintf("Use `%sgen <service>` to claim an account.", d.prefix),
			Color:       platform.ColorInfo,
			Footer:      fmt.Sprintf("Page %d/%d • %s", len(pages)+1, total, d.watermark),
		}
		for _, s := range services[start:end] {
			page.AddField(
				capitalize(s.name),
				fmt.Sprintf("**Stock:** `%d` accounts\n`%sgen %s`", s.count, d.prefix, s.name),
				true,
			)
		}
		pages = append(pages, page)
	}
	return pages
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

// usage renders the missing-argument hint for a command.
func (d *Dispatcher) usage(description, example string) *platform.Message {
	return d.embed(
		"Missing Argument",
		fmt.Sprintf("%s\n\n**Example:**\n`%s%s`", description, d.prefix, example),
		platform.ColorError,
	)
}

// accessDenied renders the privileged-command rejection.
func (d *Dispatcher) accessDenied() *platform.Message {
	return d.embed(
		"Access Denied",
		"You don't have the required role to use this command.",
		platform.ColorError,
	)
}

// genericError renders the unexpected-failure message.
func (d *Dispatcher) genericError(err error) *platform.Message {
	return d.embed(
		"Error Occurred",
		fmt.Sprintf("An unexpected error occurred: ```%v```", err),
		platform.ColorError,
	)
}
