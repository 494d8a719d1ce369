package dispatcher

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	msgAccountFormat = "❌ Format:\n!account Jazzcash Ali 03001234567"
	msgAccountSaved  = "✅ Account saved."
	msgAttachMedia   = "⚠️ Attach media with !done"
	msgNoAccount     = "⚠️ Set your account first using !account"
	msgRequested     = "🕒 Withdraw request submitted. You'll be paid in 1 hour."
	msgTempCleared   = "🧹 Cleared temp folder!"
)

func helpText(amount decimal.Decimal, maxDays int, min decimal.Decimal) string {
	return fmt.Sprintf(`🛠 How to Work:
1. Admin posts: !task <url> <task_id>
2. You submit proof: !done (attach screenshot/video)
3. Admin approves via: !g <task_id>

💰 Earn Rs.%s/day for up to %d days per task
💸 Minimum withdraw: Rs.%s

📌 Commands:
/balance /withdraw /account /done /work`, amount, maxDays, min)
}

func welcomeText(handle string) string {
	return fmt.Sprintf("👋 Welcome @%s!\nUse these:\n/balance, /withdraw, /account, /done, /work", handle)
}

func balanceText(balance decimal.Decimal, completed int) string {
	return fmt.Sprintf("💰 Balance: Rs.%s\n📌 Tasks Completed: %d", balance, completed)
}

func belowMinimumText(min decimal.Decimal) string {
	return fmt.Sprintf("❌ Minimum Rs.%s required to withdraw.", min)
}

func withdrawNoticeText(ref, handle, account string, amount decimal.Decimal) string {
	return fmt.Sprintf("💸 Withdraw Request %s:\n• User: @%s\n• Account: %s\n• Amount: Rs.%s", ref, handle, account, amount)
}

func taskAnnounceText(taskID, url, title string) string {
	text := fmt.Sprintf("📢 New Task %s\n🔗 %s", taskID, url)
	if title != "" {
		text += "\n📝 " + title
	}
	return text
}

func submissionText(handle string) string {
	return fmt.Sprintf("📩 Submission by @%s\nReply with !g <task_id> or !reject <task_id>", handle)
}

func creditGuardText(maxDays int) string {
	return fmt.Sprintf("⚠️ Already approved or %d days completed.", maxDays)
}

func creditedText(handle string, amount decimal.Decimal, taskID string) string {
	return fmt.Sprintf("✅ @%s earned Rs.%s for Task %s", handle, amount, taskID)
}

func rejectedText(handle, taskID string) string {
	return fmt.Sprintf("❌ @%s your Task %s was rejected.", handle, taskID)
}

func settledText(handle string) string {
	return fmt.Sprintf("🎉 @%s your withdrawal has been approved!", handle)
}
