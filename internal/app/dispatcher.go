package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"office_manager_notifier/internal/domain/notification"
	"office_manager_notifier/internal/domain/sender"
	"office_manager_notifier/internal/infra/metrics"
)

// Channel-level configuration errors. A channel missing its credentials is
// skipped for every company in the pass and reported once at pass level,
// never per company.
var (
	ErrSmsNotConfigured   = fmt.Errorf("sms gateway credentials are not configured")
	ErrEmailNotConfigured = fmt.Errorf("smtp credentials are not configured")
)

const defaultDispatchWorkers = 4

// keyedMutex serializes check-send-append sequences per dedup key so two
// overlapping passes cannot both miss the log entry and send twice. The
// map only ever holds companies x categories x channels entries.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

// Dispatcher consumes eligibility decisions: it deduplicates against the
// notification log, renders message bodies, invokes the SMS/email senders
// and appends one audit entry per attempt. A failure for one company never
// prevents dispatch for the rest.
type Dispatcher struct {
	logRepo     notification.LogRepository
	sms         sender.SmsSender
	email       sender.EmailSender
	metrics     *metrics.Metrics
	logger      *logrus.Logger
	sendTimeout time.Duration
	workers     int
	keys        keyedMutex
}

func NewDispatcher(
	logRepo notification.LogRepository,
	sms sender.SmsSender,
	email sender.EmailSender,
	m *metrics.Metrics,
	logger *logrus.Logger,
	sendTimeout time.Duration,
	workers int,
) *Dispatcher {
	if workers <= 0 {
		workers = defaultDispatchWorkers
	}
	return &Dispatcher{
		logRepo:     logRepo,
		sms:         sms,
		email:       email,
		metrics:     m,
		logger:      logger,
		sendTimeout: sendTimeout,
		workers:     workers,
	}
}

// skippedChannels reports which channels must sit the pass out because
// their master flag is on but their credentials are missing.
func skippedChannels(settings *notification.Settings) map[notification.Channel]error {
	skipped := make(map[notification.Channel]error)
	if settings.EnableSmsNotifications && !settings.SmsConfigured() {
		skipped[notification.ChannelSMS] = ErrSmsNotConfigured
	}
	if settings.EnableEmailNotifications && !settings.EmailConfigured() {
		skipped[notification.ChannelEmail] = ErrEmailNotConfigured
	}
	return skipped
}

// Dispatch processes all decisions of one pass with bounded parallelism.
// Ordering between companies is not guaranteed.
func (d *Dispatcher) Dispatch(ctx context.Context, settings *notification.Settings, decisions []notification.Decision) {
	if len(decisions) == 0 {
		return
	}

	skipped := skippedChannels(settings)
	for ch, err := range skipped {
		d.logger.WithField("channel", string(ch)).Warnf("channel skipped for this pass: %v", err)
	}

	jobs := make(chan notification.Decision)
	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for dec := range jobs {
				for _, ch := range dec.Channels {
					if _, skip := skipped[ch]; skip {
						continue
					}
					d.dispatchOne(ctx, settings, &dec, ch, false)
				}
			}
		}()
	}
	for _, dec := range decisions {
		jobs <- dec
	}
	close(jobs)
	wg.Wait()
}

// DispatchTest sends a test notification for one decision, bypassing the
// same-day dedup and the channel master flags, but passing through
// rendering, sending and logging. A channel without credentials is skipped,
// not fatal: the remaining channels are still attempted, and the result is
// all-succeeded only when every channel with contact data went out. An
// error is returned only when no channel could be attempted at all.
func (d *Dispatcher) DispatchTest(ctx context.Context, settings *notification.Settings, dec *notification.Decision) (bool, error) {
	var configErrs []error
	attempted, succeeded := 0, 0
	for _, ch := range dec.Channels {
		switch ch {
		case notification.ChannelSMS:
			if !settings.SmsConfigured() {
				configErrs = append(configErrs, ErrSmsNotConfigured)
				continue
			}
		case notification.ChannelEmail:
			if !settings.EmailConfigured() {
				configErrs = append(configErrs, ErrEmailNotConfigured)
				continue
			}
		}
		attempted++
		if d.dispatchOne(ctx, settings, dec, ch, true) {
			succeeded++
		}
	}
	if attempted == 0 {
		if len(configErrs) > 0 {
			return false, errors.Join(configErrs...)
		}
		return false, fmt.Errorf("company %d has no reachable notification channel", dec.Company.ID)
	}
	return succeeded == attempted && len(configErrs) == 0, nil
}

func dedupKey(companyID int64, category notification.Category, ch notification.Channel, day time.Time) string {
	return fmt.Sprintf("%d|%s|%s|%s", companyID, category, ch, day.Format("2006-01-02"))
}

// dispatchOne runs the dedup-render-send-record sequence for a single
// (decision, channel) pair and reports whether the send succeeded. The
// sequence is serialized per dedup key; the log entry is appended exactly
// once, after the attempt completes or times out. The settings snapshot is
// handed to the sender so a concurrent settings save cannot change the
// credentials of an in-flight pass.
func (d *Dispatcher) dispatchOne(ctx context.Context, settings *notification.Settings, dec *notification.Decision, ch notification.Channel, skipDedup bool) bool {
	now := time.Now()
	key := dedupKey(dec.Company.ID, dec.Category, ch, now)
	lock := d.keys.get(key)
	lock.Lock()
	defer lock.Unlock()

	entry := d.logger.WithFields(logrus.Fields{
		"company_id": dec.Company.ID,
		"company":    dec.Company.Name,
		"category":   string(dec.Category),
		"channel":    string(ch),
	})

	if !skipDedup {
		exists, err := d.logRepo.HasEntryForDay(ctx, dec.Company.ID, dec.Category, ch, now)
		if err != nil {
			entry.Errorf("dedup lookup failed, skipping channel: %v", err)
			return false
		}
		if exists {
			entry.Debug("already sent today, skipping")
			d.metrics.DedupSkips.WithLabelValues(string(ch), string(dec.Category)).Inc()
			return false
		}
	}

	subject, body := RenderMessage(dec, ch)

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	var recipient string
	var sendErr error
	switch ch {
	case notification.ChannelSMS:
		recipient = dec.Company.PhoneNumber
		sendErr = d.sms.SendSms(sendCtx, settings, recipient, body)
	case notification.ChannelEmail:
		recipient = dec.Company.Email
		sendErr = d.email.SendEmail(sendCtx, settings, recipient, subject, body)
	}

	logRow := &notification.Log{
		SentAt:      now,
		SentOn:      time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		Channel:     ch,
		Category:    dec.Category,
		CompanyID:   dec.Company.ID,
		CompanyName: dec.Company.Name,
		Recipient:   recipient,
		Message:     body,
		Success:     sendErr == nil,
	}
	outcome := "success"
	if sendErr != nil {
		logRow.ErrorDetail = sendErr.Error()
		outcome = "failure"
		entry.Warnf("send attempt failed: %v", sendErr)
	}
	d.metrics.SendAttempts.WithLabelValues(string(ch), string(dec.Category), outcome).Inc()

	// The attempt is recorded unconditionally and never retried.
	if err := d.logRepo.Append(ctx, logRow); err != nil {
		entry.Errorf("failed to append notification log entry: %v", err)
	}
	return sendErr == nil
}
