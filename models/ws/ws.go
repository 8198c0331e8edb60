package wsmodels

// Коды событий, рассылаемых в сокет
const (
	CodeInboxUpdated  = "inbox_updated"  // изменился список входящих согласований
	CodeDocStatus     = "doc_status"     // изменился статус документа
	CodeSignRequested = "sign_requested" // запрошено подписание документа
)

type ServerMessage struct {
	ToUserID string `json:"-"`
	Time     string `json:"time"` // время события
	Code     string `json:"code"` // код события
	Msg      string `json:"msg"`  // текст события
}
