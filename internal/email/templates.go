package email

import (
	"fmt"
	"html"
)

// QuoteEmailHTML returns the HTML body for the daily quote email.
func QuoteEmailHTML(quote, author string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Quote of the Day</title>
</head>
<body style="margin:0;padding:0;font-family:Georgia,'Times New Roman',serif;background-color:#f4f5f7;">
<table width="100%%" cellpadding="0" cellspacing="0" style="background-color:#f4f5f7;padding:40px 0;">
<tr><td align="center">
<table width="520" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;overflow:hidden;box-shadow:0 2px 8px rgba(0,0,0,0.08);">
  <tr><td style="padding:40px 48px 16px;">
    <p style="margin:0;font-size:22px;font-style:italic;color:#1a1a2e;line-height:1.5;">&ldquo;%s&rdquo;</p>
  </td></tr>
  <tr><td style="padding:0 48px 40px;text-align:right;">
    <p style="margin:0;font-size:16px;color:#4a4a68;">&mdash; %s</p>
  </td></tr>
  <tr><td style="padding:16px 48px;background-color:#f9f9fc;border-top:1px solid #eeeef2;">
    <p style="margin:0;font-size:12px;color:#aaaabc;text-align:center;font-family:Arial,sans-serif;">
      Quotes provided by <a href="https://zenquotes.io/" style="color:#6c63ff;">ZenQuotes API</a>
    </p>
  </td></tr>
</table>
</td></tr>
</table>
</body>
</html>`, html.EscapeString(quote), html.EscapeString(author))
}

// QuoteEmailText returns the plain-text body for the daily quote email.
func QuoteEmailText(quote, author string) string {
	return fmt.Sprintf("\"%s\"\n\n- %s\n\nQuotes provided by ZenQuotes API (https://zenquotes.io/)", quote, author)
}
