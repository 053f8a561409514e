package email

import "fmt"

// OutboundNotice carries the fields of one outbound movement for email
// purposes.
type OutboundNotice struct {
	SerialNumber int64
	ProductCode  string
	ProductName  string
	Quantity     int
	Handler      string
	ShippedAt    string
}

// BuildOutboundNoticeBody builds the HTML body for a shipment notice
func BuildOutboundNoticeBody(n OutboundNotice) string {
	serial := "-"
	if n.SerialNumber > 0 {
		serial = fmt.Sprintf("%d", n.SerialNumber)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: linear-gradient(135deg, #11998e 0%%, #38ef7d 100%%); padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">출고 처리 완료</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">아래 품목의 출고가 처리되었습니다.</p>

		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<tbody>
				<tr>
					<td style="padding: 12px; border-bottom: 1px solid #eee; color: #666; width: 30%%;">제품명</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee; font-weight: 600;">%s</td>
				</tr>
				<tr>
					<td style="padding: 12px; border-bottom: 1px solid #eee; color: #666;">제품코드</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee; font-family: monospace;">%s</td>
				</tr>
				<tr>
					<td style="padding: 12px; border-bottom: 1px solid #eee; color: #666;">시리얼 번호</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee; font-family: monospace;">%s</td>
				</tr>
				<tr>
					<td style="padding: 12px; border-bottom: 1px solid #eee; color: #666;">수량</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee;">%d</td>
				</tr>
				<tr>
					<td style="padding: 12px; border-bottom: 1px solid #eee; color: #666;">담당자</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee;">%s</td>
				</tr>
				<tr>
					<td style="padding: 12px; border-bottom: 1px solid #eee; color: #666;">출고 일시</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee;">%s</td>
				</tr>
			</tbody>
		</table>

		<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">

		<p style="font-size: 12px; color: #999; margin-bottom: 0;">
			이 메일은 자동 발송되었습니다. 문의 사항은 재고 관리 담당자에게 연락해 주세요.
		</p>
	</div>
</body>
</html>`, n.ProductName, n.ProductCode, serial, n.Quantity, n.Handler, n.ShippedAt)
}
