package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"movextransfer/internal/logger"
)

type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

type TwilioSender struct {
	client     *twilio.RestClient
	fromNumber string
	log        logger.ILogger
}

func NewTwilioSender(accountSid, authToken, fromNumber string, log logger.ILogger) *TwilioSender {
	s := &TwilioSender{fromNumber: fromNumber, log: log}
	if accountSid != "" && authToken != "" {
		s.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username:   accountSid,
			Password:   authToken,
			AccountSid: accountSid,
		})
	}
	return s
}

func (s *TwilioSender) Send(ctx context.Context, to, body string) error {
	if s.client == nil || s.fromNumber == "" {
		return fmt.Errorf("twilio credentials: %w", ErrNotConfigured)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !strings.HasPrefix(to, "+") {
		s.log.Warning("sms recipient is not in E.164 format", logger.String("to", to))
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.fromNumber)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("sending sms to %s: %w", to, err)
	}

	if resp != nil && resp.Sid != nil {
		s.log.Info("sms sent", logger.String("to", to), logger.String("sid", *resp.Sid))
	}
	return nil
}
