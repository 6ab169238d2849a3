package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lamasat/storefront/internal/domain"
)

// ErrNotConfigured is returned when the bot credentials are absent. The
// endpoint must fail fast rather than silently drop an order.
var ErrNotConfigured = errors.New("telegram bot token or chat id is not configured")

const defaultBaseURL = "https://api.telegram.org"

// TelegramNotifier relays order details to a Telegram chat through the bot
// sendMessage API.
type TelegramNotifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
}

func NewTelegramNotifier(botToken, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  defaultBaseURL,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// WithBaseURL overrides the Telegram API host. Used in tests.
func (n *TelegramNotifier) WithBaseURL(baseURL string) *TelegramNotifier {
	n.baseURL = baseURL
	return n
}

// Configured reports whether both credentials are present.
func (n *TelegramNotifier) Configured() bool {
	return n.botToken != "" && n.chatID != ""
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send formats the order into the storefront's Arabic message and posts it to
// the bot API. A non-2xx response or ok:false is a delivery failure.
func (n *TelegramNotifier) Send(ctx context.Context, order domain.Order) error {
	if !n.Configured() {
		return ErrNotConfigured
	}

	payload := sendMessageRequest{
		ChatID:    n.chatID,
		Text:      FormatOrderMessage(order),
		ParseMode: "HTML",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	var result sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode telegram response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !result.OK {
		if result.Description == "" {
			result.Description = resp.Status
		}
		return fmt.Errorf("telegram rejected message: %s", result.Description)
	}

	return nil
}

// FormatOrderMessage renders the human-readable order text the shop owner
// receives. Layout follows the storefront's established message shape.
func FormatOrderMessage(order domain.Order) string {
	var b bytes.Buffer

	b.WriteString("🛒 طلب جديد\n\n")
	fmt.Fprintf(&b, "📌 الاسم: %s\n", order.Customer.Name)
	fmt.Fprintf(&b, "📞 رقم الهاتف: %s\n", order.Customer.Phone)
	fmt.Fprintf(&b, "🏠 المدينة: %s\n", order.Customer.City)
	fmt.Fprintf(&b, "📍 العنوان التفصيلي: %s\n", order.Customer.DetailedAddress)
	if order.Customer.Notes != "" {
		fmt.Fprintf(&b, "📝 ملاحظات: %s\n", order.Customer.Notes)
	}
	if order.Customer.DiscountCode != "" {
		fmt.Fprintf(&b, "🎟 كود خصم: %s\n", order.Customer.DiscountCode)
	}

	b.WriteString("\n🛍 المنتجات:\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %s × %d = %s %s\n",
			item.Name, item.Quantity, formatAmount(item.Price*float64(item.Quantity)), order.Currency)
	}

	fmt.Fprintf(&b, "\n🚚 رسوم الشحن: %s %s", formatAmount(order.ShippingCost), order.Currency)
	fmt.Fprintf(&b, "\n💰 المجموع الكلي: %s %s", formatAmount(order.Total), order.Currency)

	return b.String()
}

// formatAmount trims trailing zeros so whole amounts print without decimals.
func formatAmount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
