// Package membership implements the join-gate: a user must belong to
// every required channel, and the bot itself must hold admin rights in
// each of them before a user-side verdict is trusted.
package membership

import (
	"context"
	"sync"

	"streambeats/internal/models"
)

// MemberAPI is the slice of the chat transport the checker needs.
type MemberAPI interface {
	// MemberStatus returns the Telegram membership status string of
	// userID in the given channel ("member", "administrator", ...).
	MemberStatus(ctx context.Context, channelID string, userID int64) (string, error)
	// BotID returns the bot's own user id.
	BotID(ctx context.Context) (int64, error)
}

// Result partitions the required channels after one round of lookups.
type Result struct {
	MissingUser     []models.Channel // channels the user has not joined
	MissingBotAdmin []string         // channel ids where the bot lacks admin rights
}

// Verdict is the gate outcome acted on by the handlers.
type Verdict int

const (
	// Allowed: user joined everything, recorded in the CHECKED set.
	Allowed Verdict = iota
	// MissingChannels: user must join the channels in Result.MissingUser;
	// recorded in the NOT_CHECKED set.
	MissingChannels
	// BotNotAdmin: the user verdict cannot be trusted yet. Neither set
	// is touched; admins must grant the bot rights first.
	BotNotAdmin
)

type Checker struct {
	api      MemberAPI
	store    *Store
	channels []models.Channel
}

func NewChecker(api MemberAPI, store *Store, channels []models.Channel) *Checker {
	return &Checker{api: api, store: store, channels: channels}
}

func userJoined(status string) bool {
	switch status {
	case "member", "administrator", "creator":
		return true
	}
	return false
}

func botIsAdmin(status string) bool {
	return status == "administrator" || status == "creator"
}

// Status queries every required channel concurrently for both the
// user's membership and the bot's admin rights, then aggregates once
// all lookups settle. A failed lookup degrades to the stricter
// outcome (not joined / not admin) instead of surfacing an error.
func (c *Checker) Status(ctx context.Context, userID int64) Result {
	joined := make([]bool, len(c.channels))
	admin := make([]bool, len(c.channels))

	botID, botErr := c.api.BotID(ctx)

	var wg sync.WaitGroup
	for i, ch := range c.channels {
		wg.Add(1)
		go func(i int, ch models.Channel) {
			defer wg.Done()
			status, err := c.api.MemberStatus(ctx, ch.ID, userID)
			joined[i] = err == nil && userJoined(status)
		}(i, ch)

		if botErr != nil {
			continue
		}
		wg.Add(1)
		go func(i int, ch models.Channel) {
			defer wg.Done()
			status, err := c.api.MemberStatus(ctx, ch.ID, botID)
			admin[i] = err == nil && botIsAdmin(status)
		}(i, ch)
	}
	wg.Wait()

	var res Result
	for i, ch := range c.channels {
		if !joined[i] {
			res.MissingUser = append(res.MissingUser, ch)
		}
		if !admin[i] {
			res.MissingBotAdmin = append(res.MissingBotAdmin, ch.ID)
		}
	}
	return res
}

// Gate runs one full check for the user and records the outcome.
// Retry is user-driven: callers invoke Gate again on the retry button,
// there is no background polling.
func (c *Checker) Gate(ctx context.Context, userID int64) (Verdict, Result) {
	res := c.Status(ctx, userID)

	if len(res.MissingBotAdmin) > 0 {
		// Member lists may be unreliable while the bot lacks admin
		// rights, so the user verdict is deferred and nothing is
		// persisted.
		return BotNotAdmin, res
	}

	if len(res.MissingUser) == 0 {
		c.store.MarkChecked(userID)
		return Allowed, res
	}

	c.store.MarkNotChecked(userID)
	return MissingChannels, res
}

// Channels returns the configured required-channel list.
func (c *Checker) Channels() []models.Channel {
	return c.channels
}
