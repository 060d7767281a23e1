package app

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"office_manager_notifier/internal/domain/notification"
)

// Message rendering. Bodies are plain text; amounts are grouped integer
// currency ("500,000"), dates either ISO ("2006-01-02") or the localized
// long form used in email bodies.

var amountPrinter = message.NewPrinter(language.Korean)

const longDateLayout = "2006년 01월 02일"

func formatAmount(d decimal.Decimal) string {
	return amountPrinter.Sprintf("%d", d.IntPart())
}

func formatLongDate(t time.Time) string {
	return t.Format(longDateLayout)
}

// RenderMessage produces the subject and body for one decision on one
// channel. SMS messages have an empty subject. Template selection keys on
// (category, days-remaining | period).
func RenderMessage(d *notification.Decision, ch notification.Channel) (subject, body string) {
	switch d.Category {
	case notification.CategoryUnpaid:
		if ch == notification.ChannelSMS {
			return "", fmt.Sprintf("[미수금 안내]\n%s님\n%s 미수금: %s원\n빠른 납부 부탁드립니다.",
				d.Company.Name, d.Period, formatAmount(d.UnpaidAmount))
		}
		subject = fmt.Sprintf("[미수금 안내] %s - %s 미수금 납입 안내", d.Company.Name, d.Period)
		body = fmt.Sprintf(`안녕하세요, %s 담당자님.

미수금 납입 안내 드립니다.

대상 기간: %s
미수금 금액: %s원
상태: 미납

빠른 시일 내에 입금 부탁드립니다.

감사합니다.
오피스 매니저 드림`, d.Company.Name, d.Period, formatAmount(d.UnpaidAmount))
		return subject, body

	case notification.CategoryRentDue:
		amount := formatAmount(d.Company.MonthlyFee)
		if ch == notification.ChannelSMS {
			switch d.DaysRemaining {
			case 7:
				body = fmt.Sprintf("[월세 안내]\n%s님\n월세 납입일이 7일 남았습니다.\n금액: %s원\n기한 내 납부 부탁드립니다.", d.Company.Name, amount)
			case 3:
				body = fmt.Sprintf("[월세 안내]\n%s님\n월세 납입일이 3일 남았습니다.\n금액: %s원\n기한 내 납부 부탁드립니다.", d.Company.Name, amount)
			case 0:
				body = fmt.Sprintf("[월세 안내]\n%s님\n오늘은 월세 납입일입니다.\n금액: %s원\n납부 부탁드립니다.", d.Company.Name, amount)
			default:
				body = fmt.Sprintf("[월세 안내]\n%s님\n월세 %s원 납부 안내", d.Company.Name, amount)
			}
			return "", body
		}
		switch d.DaysRemaining {
		case 7:
			subject = fmt.Sprintf("[월세 안내] %s - 월세 납입 안내 (D-7)", d.Company.Name)
		case 3:
			subject = fmt.Sprintf("[월세 안내] %s - 월세 납입 리마인드 (D-3)", d.Company.Name)
		case 0:
			subject = fmt.Sprintf("[월세 안내] %s - 오늘 월세 납입일입니다", d.Company.Name)
		default:
			subject = fmt.Sprintf("[월세 안내] %s", d.Company.Name)
		}
		body = fmt.Sprintf(`안녕하세요, %s 담당자님.

월세 납입 안내 드립니다.

납입 예정일: %s (%s)
납입 금액: %s원
남은 기간: %d일

정해진 기일 내에 입금 부탁드립니다.

감사합니다.
오피스 매니저 드림`, d.Company.Name, d.DueDate.Format("2006-01-02"), formatLongDate(d.DueDate), amount, d.DaysRemaining)
		return subject, body
	}
	return "", ""
}
