package service

import (
	"fmt"
	"safesound/cmd/internal/domain/entity"
	"safesound/cmd/internal/utils"
)

// The two email variants share one layout; only the headline block differs.
// Contacts are independent recipients, so the same content is fanned out as
// one message per address.

func renderMissedCheckInEmails(user *entity.User, contacts []entity.ContactSnapshot, lastSeen int64, thresholdHours int) []*EmailMessage {
	lastSeenText := fmt.Sprintf("%s (%s)", utils.FormatEpochInZone(lastSeen, user.Timezone), user.Timezone)

	subject := fmt.Sprintf("⚠️ Safety Alert: %s has not checked in", user.Username)
	headline := fmt.Sprintf("<strong>%s</strong> has not checked in for more than <strong>%d hours</strong>.</p>\n"+
		"<p><strong>Last Seen:</strong> %s", user.Username, thresholdHours, lastSeenText)
	textHeadline := fmt.Sprintf("%s has not checked in for more than %d hours.\nLast Seen: %s",
		user.Username, thresholdHours, lastSeenText)

	return fanOut(contacts, subject, renderAlertHTML(user, "⚠️ Safety Alert", headline), renderAlertText(user, "SAFETY ALERT", textHeadline))
}

func renderSOSEmails(user *entity.User, contacts []entity.ContactSnapshot, triggeredAt int64) []*EmailMessage {
	triggeredText := fmt.Sprintf("%s (%s)", utils.FormatEpochInZone(triggeredAt, user.Timezone), user.Timezone)

	subject := fmt.Sprintf("🚨 URGENT: %s needs help", user.Username)
	headline := fmt.Sprintf("<strong>%s</strong> has manually triggered an emergency SOS alert. This was a deliberate call for help, not a missed check-in.</p>\n"+
		"<p><strong>Triggered:</strong> %s", user.Username, triggeredText)
	textHeadline := fmt.Sprintf("%s has manually triggered an emergency SOS alert. This was a deliberate call for help, not a missed check-in.\nTriggered: %s",
		user.Username, triggeredText)

	return fanOut(contacts, subject, renderAlertHTML(user, "🚨 Emergency SOS", headline), renderAlertText(user, "EMERGENCY SOS", textHeadline))
}

func fanOut(contacts []entity.ContactSnapshot, subject, htmlBody, textBody string) []*EmailMessage {
	msgs := make([]*EmailMessage, len(contacts))
	for i, contact := range contacts {
		msgs[i] = &EmailMessage{
			To:       contact.Email,
			Subject:  subject,
			TextBody: textBody,
			HTMLBody: htmlBody,
		}
	}
	return msgs
}

func renderAlertHTML(user *entity.User, header, headline string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background-color: #ff6b6b; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
    .content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 8px 8px; }
    .alert-box { background-color: #fff3cd; border-left: 4px solid #ffc107; padding: 15px; margin: 20px 0; }
    .info-box { background-color: #e7f3ff; border-left: 4px solid #2196F3; padding: 15px; margin: 20px 0; }
    .footer { text-align: center; margin-top: 30px; font-size: 12px; color: #666; }
    strong { color: #d32f2f; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>%s</h1>
    </div>
    <div class="content">
      <p>Hello,</p>

      <p>You are receiving this email because you are listed as an emergency contact for <strong>%s</strong> (%s) on the Safe &amp; Sound app.</p>

      <div class="alert-box">
        <h3>Alert Details</h3>
        <p>%s</p>
      </div>

      <div class="info-box">
        <h3>What should you do?</h3>
        <p>Please try to contact <strong>%s</strong> as soon as possible to ensure their safety. You can reach them at:</p>
        <ul>
          <li><strong>Email:</strong> %s</li>
        </ul>
        <p>If you cannot reach them, please consider contacting local authorities for a wellness check.</p>
      </div>

      <div class="footer">
        <p><strong>Privacy Notice:</strong> This is an automated safety alert from the Safe &amp; Sound app. Your contact information is only used for emergency notifications and is never shared with third parties.</p>
        <p>If you believe you received this email in error or wish to be removed from %s's emergency contacts, please contact them directly.</p>
      </div>
    </div>
  </div>
</body>
</html>`, header, user.Username, user.Email, headline, user.Username, user.Email, user.Username)
}

func renderAlertText(user *entity.User, header, headline string) string {
	return fmt.Sprintf(`%s

You are receiving this email because you are listed as an emergency contact for %s (%s) on the Safe & Sound app.

ALERT DETAILS
%s

WHAT SHOULD YOU DO?
Please try to contact %s as soon as possible to ensure their safety.
Email: %s

If you cannot reach them, please consider contacting local authorities for a wellness check.

---
Privacy Notice: This is an automated safety alert from the Safe & Sound app. Your contact information is only used for emergency notifications and is never shared with third parties.

If you believe you received this email in error or wish to be removed from %s's emergency contacts, please contact them directly.
`, header, user.Username, user.Email, headline, user.Username, user.Email, user.Username)
}
