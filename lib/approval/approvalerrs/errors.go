package approvalerrs

import "github.com/pkg/errors"

// Ошибки валидации: состояние документа не меняется,
// вызывающий исправляет запрос и повторяет
var (
	// ErrNoEligibleStage сумма не попала ни в один диапазон и нет этапа по умолчанию
	ErrNoEligibleStage = errors.New("не найден подходящий этап согласования")
	// ErrNotAuthorizedApprover действующий не входит в набор согласующих этапа
	ErrNotAuthorizedApprover = errors.New("сотрудник не является согласующим текущего этапа")
	// ErrDuplicateAction повторное согласование тем же сотрудником на том же этапе
	ErrDuplicateAction = errors.New("решение по документу на этом этапе уже принято")
	// ErrSignatureNotComplete завершение этапа заблокировано до окончания подписания
	ErrSignatureNotComplete = errors.New("документ ожидает подписания")
)

// ErrLockBusy переход по документу уже выполняется другим запросом,
// повторить с актуальными данными
var ErrLockBusy = errors.New("документ занят другим действием, повторите позже")
