package service

import (
	"context"
	"dream_site_backend/internal/config"
	"dream_site_backend/internal/model"
	"dream_site_backend/internal/scoring"
	"dream_site_backend/internal/util"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const mailCharset = "UTF-8"

// MailMessage 纯文本邮件
type MailMessage struct {
	To      []string
	ReplyTo []string
	Subject string
	Body    string
}

// Mailer 邮件发送接口
type Mailer interface {
	Send(ctx context.Context, from string, msg MailMessage) error
}

// sesAPI 便于测试时替换 SES 客户端
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESMailer 基于 AWS SES 的实现
type SESMailer struct {
	client sesAPI
}

func NewSESMailer(ctx context.Context, region string) (*SESMailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SESMailer{client: ses.NewFromConfig(cfg)}, nil
}

func (m *SESMailer) Send(ctx context.Context, from string, msg MailMessage) error {
	input := &ses.SendEmailInput{
		Source: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: msg.To,
		},
		ReplyToAddresses: msg.ReplyTo,
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String(mailCharset)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(msg.Body), Charset: aws.String(mailCharset)},
			},
		},
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("ses send email: %w", err)
	}
	return nil
}

// MailService 组装站点邮件：测评结果、联系表单通知、订阅欢迎信
type MailService struct {
	mu     sync.RWMutex
	mailer Mailer
	cfg    config.MailConfig
	quiz   config.QuizConfig
}

func NewMailService(cfg *config.Config, mailer Mailer) *MailService {
	return &MailService{
		mailer: mailer,
		cfg:    cfg.Mail,
		quiz:   cfg.Quiz,
	}
}

// UpdateConfig 配置热更新时替换发件设置
func (s *MailService) UpdateConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg.Mail
	s.quiz = cfg.Quiz
}

func (s *MailService) settings() (config.MailConfig, config.QuizConfig) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg, s.quiz
}

func (s *MailService) Enabled() bool {
	cfg, _ := s.settings()
	return cfg.Enabled && s.mailer != nil && cfg.From != ""
}

func (s *MailService) send(ctx context.Context, msg MailMessage) error {
	if !s.Enabled() {
		return util.ErrMailDisabled
	}
	cfg, _ := s.settings()
	if len(msg.ReplyTo) == 0 && cfg.ReplyTo != "" {
		msg.ReplyTo = []string{cfg.ReplyTo}
	}
	return s.mailer.Send(ctx, cfg.From, msg)
}

// SendResults 向测评者发送分数和建议
func (s *MailService) SendResults(ctx context.Context, a *model.DreamAssessment, result *AssessmentResult) error {
	cfg, quiz := s.settings()
	subject, body := BuildResultsEmail(cfg.SiteName, result, quiz.ResultURL(a.PublicToken))
	return s.send(ctx, MailMessage{
		To:      []string{a.Email},
		Subject: subject,
		Body:    body,
	})
}

// NotifyContact 通知站点负责人有新的联系表单
func (s *MailService) NotifyContact(ctx context.Context, c *model.Contact) error {
	cfg, _ := s.settings()
	if cfg.NotifyTo == "" {
		return util.ErrMailDisabled
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New contact form submission on %s\n\n", cfg.SiteName)
	fmt.Fprintf(&b, "Name: %s\n", c.Name)
	fmt.Fprintf(&b, "Email: %s\n", c.Email)
	if c.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", c.Company)
	}
	if c.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", c.Phone)
	}
	fmt.Fprintf(&b, "\n%s\n", c.Message)

	return s.send(ctx, MailMessage{
		To:      []string{cfg.NotifyTo},
		ReplyTo: []string{c.Email},
		Subject: fmt.Sprintf("[%s] New enquiry from %s", cfg.SiteName, c.Name),
		Body:    b.String(),
	})
}

// SendWelcome 订阅确认邮件，附退订链接
func (s *MailService) SendWelcome(ctx context.Context, sub *model.NewsletterSubscriber) error {
	cfg, quiz := s.settings()

	greeting := "Hi there,"
	if sub.Name != "" {
		greeting = fmt.Sprintf("Hi %s,", sub.Name)
	}

	body := fmt.Sprintf("%s\n\nThanks for subscribing to the %s newsletter.\n\n"+
		"Haven't taken the DREAM AI Audit yet? Start here: %s\n\n"+
		"Unsubscribe any time: %s/newsletter/unsubscribe?token=%s\n",
		greeting, cfg.SiteName, quiz.QuizURL(), quiz.SiteURL, sub.Token)

	return s.send(ctx, MailMessage{
		To:      []string{sub.Email},
		Subject: fmt.Sprintf("Welcome to %s", cfg.SiteName),
		Body:    body,
	})
}

// BuildResultsEmail 生成结果邮件的标题和正文
func BuildResultsEmail(siteName string, result *AssessmentResult, resultURL string) (string, string) {
	var b strings.Builder

	greeting := "Hi there,"
	if result.Name != "" {
		greeting = fmt.Sprintf("Hi %s,", result.Name)
	}
	fmt.Fprintf(&b, "%s\n\n", greeting)
	fmt.Fprintf(&b, "Thanks for completing the %s DREAM AI Audit (%s).\n\n", siteName, result.TierLabel)
	fmt.Fprintf(&b, "Overall score: %.1f / 10\n\n", result.Scores.Overall)

	for _, p := range scoring.AllPillars {
		fmt.Fprintf(&b, "%s: %.1f / 10 (%s)\n", p.Label(), result.Scores.Pillar(p), result.Bands[p])
	}

	b.WriteString("\nWhere to focus next:\n")
	for _, p := range scoring.AllPillars {
		recs := result.Recommendations[p]
		if len(recs) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", p.Label())
		for _, r := range recs {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}

	fmt.Fprintf(&b, "\nView your full results any time: %s\n", resultURL)

	subject := fmt.Sprintf("Your DREAM AI Audit results: %.1f / 10", result.Scores.Overall)
	return subject, b.String()
}
