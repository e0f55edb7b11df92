package service

import (
	"errors"
	"fmt"
	"html"

	"protrack/budget"
	"protrack/config"

	"gopkg.in/gomail.v2"
)

// ErrEmailDisabled 邮件服务未启用
var ErrEmailDisabled = errors.New("邮件服务未启用，请配置 email.enabled=true")

// EmailService 邮件服务
type EmailService struct {
	cfg  *config.EmailConfig
	send func(m *gomail.Message) error
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	s := &EmailService{cfg: cfg}
	s.send = s.dialAndSend
	return s
}

// Enabled 是否已启用
func (s *EmailService) Enabled() bool {
	return s.cfg.Enabled
}

// SendPasswordResetEmail 发送密码重置邮件
func (s *EmailService) SendPasswordResetEmail(toEmail, name, resetLink string) error {
	if !s.cfg.Enabled {
		return ErrEmailDisabled
	}
	return s.sendEmail(toEmail, "【ProTrack】密码重置", s.generateResetEmailBody(name, resetLink))
}

// SendBudgetAlertEmail 发送预算提醒邮件
func (s *EmailService) SendBudgetAlertEmail(alert BudgetAlert) error {
	if !s.cfg.Enabled {
		return ErrEmailDisabled
	}
	subject := fmt.Sprintf("【ProTrack】%s 月预算提醒", alert.Month)
	return s.sendEmail(alert.Email, subject, s.generateBudgetAlertBody(alert))
}

const emailLayout = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #667eea, #764ba2); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        .btn { display: inline-block; background: linear-gradient(135deg, #667eea, #764ba2); color: white !important; text-decoration: none; padding: 14px 40px; border-radius: 8px; font-weight: 600; margin: 20px 0; }
        .warning { background: #fff3cd; border-left: 4px solid #ffc107; padding: 15px; margin: 20px 0; border-radius: 4px; }
        .warning p { margin: 0; color: #856404; font-size: 14px; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
        .link { word-break: break-all; color: #667eea; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>ProTrack</h1>
        </div>
        <div class="content">
%s
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿回复</p>
        </div>
    </div>
</body>
</html>
`

// generateResetEmailBody 生成重置邮件内容
func (s *EmailService) generateResetEmailBody(name, resetLink string) string {
	link := html.EscapeString(resetLink)
	return fmt.Sprintf(emailLayout, fmt.Sprintf(`
            <p>尊敬的 <strong>%s</strong>，您好！</p>
            <p>我们收到了您的密码重置请求。请点击下方按钮重置您的密码：</p>
            <p style="text-align: center;">
                <a href="%s" class="btn">重置密码</a>
            </p>
            <div class="warning">
                <p>此链接有效期为 <strong>30 分钟</strong>，请尽快完成密码重置。</p>
                <p>如果您没有请求重置密码，请忽略此邮件。</p>
            </div>
            <p>如果按钮无法点击，请复制以下链接到浏览器打开：</p>
            <p class="link">%s</p>`, html.EscapeString(name), link, link))
}

// generateBudgetAlertBody 生成预算提醒邮件内容
func (s *EmailService) generateBudgetAlertBody(alert BudgetAlert) string {
	e := alert.Evaluation
	return fmt.Sprintf(emailLayout, fmt.Sprintf(`
            <p>您好！</p>
            <p>%s 月的支出已达到预算的 <strong>%.1f%%</strong>。</p>
            <p>预算：%s　已支出：%s　余额：%s</p>
            <div class="warning">
                <p>%s</p>
            </div>`,
		html.EscapeString(alert.Month),
		e.Percentage,
		budget.FormatCurrency(e.Amount),
		budget.FormatCurrency(e.Spent),
		budget.FormatCurrency(e.Balance),
		html.EscapeString(alert.Message)))
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.send(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}

func (s *EmailService) dialAndSend(m *gomail.Message) error {
	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	return d.DialAndSend(m)
}
