// Command mandrill-send sends one message through the Mandrill transport.
//
// Settings come from MANDRILL_* environment variables, an optional .env file
// and the file named by -config.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	email "github.com/International-Combat-Archery-Alliance/mandrill-email"
	"github.com/International-Combat-Archery-Alliance/mandrill-email/config"
	"github.com/International-Combat-Archery-Alliance/mandrill-email/internal/logger"
	"github.com/International-Combat-Archery-Alliance/mandrill-email/mandrill"
)

const metricsNamespace = "mail"

var sendMetrics = mandrill.NewMetrics(prometheus.DefaultRegisterer, metricsNamespace)

type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("mandrill-send", flag.ContinueOnError)

	configPath := fs.String("config", "", "path to a config file")
	from := fs.String("from", "", "sender address")
	subject := fs.String("subject", "", "message subject")
	text := fs.String("text", "", "plain text body")
	html := fs.String("html", "", "HTML body; -text becomes the alternative part")
	subaccount := fs.String("subaccount", "", "Mandrill subaccount for this message")
	timeout := fs.Duration("timeout", time.Minute, "overall send timeout")

	var to, cc, bcc, tags, attachments stringList
	fs.Var(&to, "to", "recipient address (repeatable)")
	fs.Var(&cc, "cc", "cc address (repeatable)")
	fs.Var(&bcc, "bcc", "bcc address (repeatable)")
	fs.Var(&tags, "tag", "message tag (repeatable)")
	fs.Var(&attachments, "attach", "file to attach (repeatable)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Env, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	transport, err := cfg.NewTransport(
		mandrill.WithMailLogger(email.NewAuditLog(log)),
		mandrill.WithMetrics(sendMetrics),
	)
	if err != nil {
		return err
	}
	defer logMetrics(log, prometheus.DefaultGatherer)

	msg := mandrill.NewMessage()
	msg.SetSubject(*subject)
	msg.SetSubaccount(*subaccount)
	for _, tag := range tags {
		msg.AddTag(tag)
	}

	if *from != "" {
		if err := msg.SetFromString(*from); err != nil {
			return err
		}
	}

	for _, list := range []struct {
		values stringList
		add    func(string) error
	}{
		{to, msg.AddToString},
		{cc, msg.AddCcString},
		{bcc, msg.AddBccString},
	} {
		for _, v := range list.values {
			if err := list.add(v); err != nil {
				return err
			}
		}
	}

	if *html != "" {
		msg.SetBody(*html, true)
		if *text != "" {
			msg.SetAlternative(*text)
		}
	} else {
		msg.SetBody(*text, false)
	}

	for _, path := range attachments {
		if err := attachFile(msg, path); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := transport.Send(ctx, msg); err != nil {
		var mailErr *email.Error
		if errors.As(err, &mailErr) {
			log.Error().Err(mailErr.Cause).Str("reason", string(mailErr.Reason)).Msg(mailErr.Message)
		}
		return err
	}

	failed := transport.Errors()
	for addr, reason := range failed {
		fmt.Printf("%s: %s\n", addr, reason)
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d recipient(s) not accepted", len(failed))
	}

	fmt.Println("sent")
	return nil
}

func attachFile(msg *mandrill.Message, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read attachment: %w", err)
	}

	return msg.AddAttachment(filepath.Base(path), mimetype.Detect(content).String(), content)
}

// logMetrics writes the transport metrics collected during this run, since
// nothing scrapes a one-shot process.
func logMetrics(log zerolog.Logger, g prometheus.Gatherer) {
	families, err := g.Gather()
	if err != nil {
		log.Warn().Err(err).Msg("failed to gather metrics")
		return
	}

	for _, f := range families {
		if !strings.HasPrefix(f.GetName(), metricsNamespace+"_mandrill_") {
			continue
		}

		for _, m := range f.GetMetric() {
			event := log.Info().Str("metric", f.GetName())
			for _, l := range m.GetLabel() {
				event = event.Str(l.GetName(), l.GetValue())
			}

			if c := m.GetCounter(); c != nil {
				event = event.Float64("value", c.GetValue())
			}
			if h := m.GetHistogram(); h != nil {
				event = event.Uint64("count", h.GetSampleCount()).Float64("sum_seconds", h.GetSampleSum())
			}

			event.Msg("send metrics")
		}
	}
}
