package sender

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"time"

	"github.com/ulrichyv/mailing/internal/models"
)

// SMTPSender sends email through an authenticated SMTP session. One session
// is opened per campaign run and reused for every recipient.
type SMTPSender struct {
	conn        *models.SMTPConnection
	dialTimeout time.Duration
}

// NewSMTPSender creates an SMTP email sender for one connection descriptor.
func NewSMTPSender(conn *models.SMTPConnection) (*SMTPSender, error) {
	if err := conn.Validate(); err != nil {
		return nil, err
	}
	return &SMTPSender{
		conn:        conn,
		dialTimeout: 30 * time.Second,
	}, nil
}

func (s *SMTPSender) Channel() models.Channel {
	return models.ChannelEmail
}

// Open dials the server, upgrades to TLS and authenticates. Any failure
// here is channel-fatal for the run.
func (s *SMTPSender) Open(ctx context.Context) (Session, error) {
	dialer := &net.Dialer{Timeout: s.dialTimeout}
	netConn, err := dialer.DialContext(ctx, "tcp", s.conn.Addr())
	if err != nil {
		return nil, fmt.Errorf("SMTP connect to %s: %w", s.conn.Addr(), err)
	}

	client, err := smtp.NewClient(netConn, s.conn.Server)
	if err != nil {
		netConn.Close()
		return nil, fmt.Errorf("SMTP handshake: %w", err)
	}

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.conn.Server}); err != nil {
			client.Close()
			return nil, fmt.Errorf("STARTTLS: %w", err)
		}
	}

	auth := smtp.PlainAuth("", s.conn.Email, s.conn.Password, s.conn.Server)
	if err := client.Auth(auth); err != nil {
		client.Close()
		return nil, fmt.Errorf("SMTP auth for %s: %w", s.conn.Email, err)
	}

	return &smtpSession{client: client, from: s.conn.Email}, nil
}

type smtpSession struct {
	client *smtp.Client
	from   string
}

// Send runs one MAIL/RCPT/DATA transaction on the shared session.
func (s *smtpSession) Send(ctx context.Context, recipient string, msg *models.RenderedMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := buildMIME(s.from, recipient, msg)
	if err != nil {
		return fmt.Errorf("build message: %w", err)
	}

	if err := s.client.Mail(s.from); err != nil {
		s.abort()
		return fmt.Errorf("MAIL FROM: %w", err)
	}
	if err := s.client.Rcpt(recipient); err != nil {
		s.abort()
		return fmt.Errorf("RCPT TO: %w", err)
	}
	w, err := s.client.Data()
	if err != nil {
		s.abort()
		return fmt.Errorf("DATA: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		w.Close()
		s.abort()
		return fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		s.abort()
		return fmt.Errorf("DATA close: %w", err)
	}
	return nil
}

// abort resets the server-side transaction after a refused command, so the
// shared session stays usable for the next recipient. Without the RSET the
// server answers every later MAIL with "503 nested MAIL command".
func (s *smtpSession) abort() {
	_ = s.client.Reset()
}

func (s *smtpSession) Close() error {
	if err := s.client.Quit(); err != nil {
		return s.client.Close()
	}
	return nil
}

// buildMIME assembles a multipart/alternative message carrying the plain
// and HTML renderings. Empty parts are omitted.
func buildMIME(from, to string, msg *models.RenderedMessage) ([]byte, error) {
	var buf bytes.Buffer
	alt := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n", alt.Boundary())
	fmt.Fprintf(&buf, "\r\n")

	// Plain part first so HTML-capable clients prefer the richer one.
	if msg.Text != "" {
		if err := writePart(alt, "text/plain; charset=utf-8", msg.Text); err != nil {
			return nil, err
		}
	}
	if msg.HTML != "" {
		if err := writePart(alt, "text/html; charset=utf-8", msg.HTML); err != nil {
			return nil, err
		}
	}

	if err := alt.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writePart(w *multipart.Writer, contentType, body string) error {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = part.Write([]byte(body))
	return err
}
