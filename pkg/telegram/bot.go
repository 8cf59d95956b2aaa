package telegram

import (
	"fmt"
	"net/http"
	"net/url"
)

// Bot posts support alerts to a fixed operations chat.
type Bot struct {
	token   string
	chatID  string
	baseURL string
}

func NewBot(token, chatID string) *Bot {
	return &Bot{
		token:   token,
		chatID:  chatID,
		baseURL: "https://api.telegram.org/bot" + token,
	}
}

// Notify sends one message to the support chat. Delivery is attempted
// once; an error here is logged by the caller and nothing else.
func (b *Bot) Notify(text string) error {
	endpoint := b.baseURL + "/sendMessage"

	params := url.Values{}
	params.Add("chat_id", b.chatID)
	params.Add("text", text)

	resp, err := http.PostForm(endpoint, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error: %s", resp.Status)
	}

	return nil
}
