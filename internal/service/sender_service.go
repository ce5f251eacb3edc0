package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"movextransfer/internal/db"
	"movextransfer/internal/entities"
	"movextransfer/internal/logger"
	"movextransfer/internal/pricing"
	"movextransfer/internal/templates"
	"movextransfer/internal/utils"
)

// SenderService renders and delivers everything the business sends out:
// the customer confirmation, the owner alert (email plus optional SMS) and
// the owner's daily digest.
type SenderService struct {
	email      EmailSender
	sms        SMSSender
	ownerEmail string
	ownerPhone string
	pricing    pricing.Config
	loc        *time.Location
	tmpl       *template.Template
	log        logger.ILogger
	now        func() time.Time
}

type SenderConfig struct {
	OwnerEmail string
	OwnerPhone string
	Location   *time.Location
	Pricing    pricing.Config
}

func NewSenderService(email EmailSender, sms SMSSender, cfg SenderConfig, log logger.ILogger) (*SenderService, error) {
	tmpl, err := template.ParseFS(templates.FS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing email templates: %w", err)
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &SenderService{
		email:      email,
		sms:        sms,
		ownerEmail: cfg.OwnerEmail,
		ownerPhone: cfg.OwnerPhone,
		pricing:    cfg.Pricing,
		loc:        loc,
		tmpl:       tmpl,
		log:        log,
		now:        time.Now,
	}, nil
}

// NotifyNewReservation sends the customer confirmation and the owner alerts
// concurrently and waits for all of them. The first failure is returned;
// each failure is logged on its own.
func (s *SenderService) NotifyNewReservation(ctx context.Context, res db.Reservation) error {
	var g errgroup.Group
	g.Go(func() error { return s.logged(res.ID, "customer confirmation", s.SendCustomerConfirmation(ctx, res)) })
	g.Go(func() error { return s.logged(res.ID, "owner notification", s.SendOwnerNotification(ctx, res)) })
	if s.ownerPhone != "" && s.sms != nil {
		g.Go(func() error { return s.logged(res.ID, "owner sms", s.SendOwnerSMS(ctx, res)) })
	}
	return g.Wait()
}

func (s *SenderService) logged(id int64, what string, err error) error {
	if err != nil {
		s.log.Error("failed to send "+what, logger.Int64("reservation_id", id), logger.Error(err))
	}
	return err
}

func (s *SenderService) SendCustomerConfirmation(ctx context.Context, res db.Reservation) error {
	data := s.emailData(res)
	html, err := s.render("customer_confirmation", data)
	if err != nil {
		return err
	}

	return s.email.Send(ctx, EmailMessage{
		ToEmail:   res.Email,
		Subject:   fmt.Sprintf("Potvrzení rezervace - %s - %s", res.DropoffAirport, data.DateFormatted),
		PlainText: plainText(data, "Děkujeme za Vaši rezervaci! Budeme Vás kontaktovat pro potvrzení."),
		HTML:      html,
	})
}

func (s *SenderService) SendOwnerNotification(ctx context.Context, res db.Reservation) error {
	if s.ownerEmail == "" {
		return fmt.Errorf("OWNER_EMAIL: %w", ErrNotConfigured)
	}
	data := s.emailData(res)
	html, err := s.render("owner_notification", data)
	if err != nil {
		return err
	}

	return s.email.Send(ctx, EmailMessage{
		ToEmail:   s.ownerEmail,
		ToName:    "Movex Transfer",
		Subject:   fmt.Sprintf("Nová rezervace: %s - %s v %s", res.DropoffAirport, data.DateFormatted, res.Time),
		PlainText: plainText(data, "Nová rezervace od "+res.Email),
		HTML:      html,
	})
}

func (s *SenderService) SendOwnerSMS(ctx context.Context, res db.Reservation) error {
	body := fmt.Sprintf("Movex: nova rezervace #%d %s %s %s, %d os., %d Kc, %s",
		res.ID, res.Date, res.Time, res.DropoffAirport, res.PassengersCount, res.Price, res.Email)
	return s.sms.Send(ctx, s.ownerPhone, body)
}

// SendOwnerDigest mails the owner the rides booked for date.
func (s *SenderService) SendOwnerDigest(ctx context.Context, date string, rides []db.Reservation) error {
	if s.ownerEmail == "" {
		return fmt.Errorf("OWNER_EMAIL: %w", ErrNotConfigured)
	}

	data := entities.DigestEmailData{
		DateFormatted: utils.FormatCzechDateString(date),
		CurrentYear:   s.now().In(s.loc).Year(),
	}
	var lines []string
	for _, r := range rides {
		d := s.emailData(r)
		data.Rides = append(data.Rides, d)
		data.TotalPrice += r.Price
		lines = append(lines, fmt.Sprintf("%s  %s  %s -> %s  (%d Kč)", r.Time, r.Type, r.PickupAddress, r.DropoffAirport, r.Price))
	}

	html, err := s.render("owner_digest", data)
	if err != nil {
		return err
	}

	return s.email.Send(ctx, EmailMessage{
		ToEmail:   s.ownerEmail,
		ToName:    "Movex Transfer",
		Subject:   fmt.Sprintf("Jízdy na %s (%d)", data.DateFormatted, len(rides)),
		PlainText: strings.Join(lines, "\n"),
		HTML:      html,
	})
}

func (s *SenderService) emailData(res db.Reservation) entities.ReservationEmailData {
	data := entities.ReservationEmailData{
		ReservationID:  res.ID,
		CustomerEmail:  res.Email,
		ServiceType:    string(res.Type),
		DateFormatted:  utils.FormatCzechDateString(res.Date),
		Time:           res.Time,
		PickupAddress:  res.PickupAddress,
		DropoffAirport: res.DropoffAirport,
		Passengers:     res.PassengersCount,
		LuggageCount:   res.LuggageCount,
		Price:          res.Price,
		Deposit:        s.pricing.Deposit(res.Price),
		CurrentYear:    s.now().In(s.loc).Year(),
	}
	if res.FlightNumber != nil {
		data.FlightNumber = *res.FlightNumber
	}
	return data
}

func (s *SenderService) render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}

func plainText(d entities.ReservationEmailData, intro string) string {
	var b strings.Builder
	b.WriteString(intro + "\n\n")
	fmt.Fprintf(&b, "Typ služby: %s\n", d.ServiceType)
	fmt.Fprintf(&b, "Datum: %s\n", d.DateFormatted)
	fmt.Fprintf(&b, "Čas vyzvednutí: %s\n", d.Time)
	fmt.Fprintf(&b, "Místo vyzvednutí: %s\n", d.PickupAddress)
	fmt.Fprintf(&b, "Cílová destinace: %s\n", d.DropoffAirport)
	fmt.Fprintf(&b, "Počet cestujících: %d\n", d.Passengers)
	if d.FlightNumber != "" {
		fmt.Fprintf(&b, "Číslo letu: %s\n", d.FlightNumber)
	}
	if d.LuggageCount > 0 {
		fmt.Fprintf(&b, "Počet zavazadel: %d\n", d.LuggageCount)
	}
	fmt.Fprintf(&b, "Cena: %d Kč\n", d.Price)
	return b.String()
}
