package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Client struct {
	Bot          *tgbotapi.BotAPI
	UpdateConfig tgbotapi.UpdateConfig
}

func NewClient(token string, debug bool, timeout int) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	bot.Debug = debug

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = timeout

	return &Client{
		Bot:          bot,
		UpdateConfig: updateConfig,
	}, nil
}

// Stop прекращает получение обновлений
func (c *Client) Stop() {
	c.Bot.StopReceivingUpdates()
}
