package notify

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// session abstracts the discordgo.Session methods we use, enabling test mocks.
type session interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Discord posts notifications to a Discord channel over the REST API; no
// gateway connection is opened.
type Discord struct {
	sess      session
	channelID string
}

// NewDiscord creates a Discord notifier from a bot token and channel ID.
func NewDiscord(botToken, channelID string) (*Discord, error) {
	if botToken == "" {
		return nil, fmt.Errorf("notify: discord bot token is required")
	}
	if channelID == "" {
		return nil, fmt.Errorf("notify: discord channel ID is required")
	}
	sess, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("notify: discord session: %w", err)
	}
	return &Discord{sess: sess, channelID: channelID}, nil
}

// Name identifies this notifier in logs.
func (d *Discord) Name() string { return "discord" }

// Send posts text to the configured channel.
func (d *Discord) Send(ctx context.Context, text string) error {
	_, err := d.sess.ChannelMessageSend(d.channelID, text, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("notify: discord post: %w", err)
	}
	return nil
}
