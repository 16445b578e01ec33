package telegram

import (
	"fmt"
	"strings"

	"mlebedev/ledgerbot/internal/models"
)

const (
	msgNoAccess     = "❌ У вас нет доступа к этому боту."
	msgNoAccessHelp = "❌ У вас нет доступа к этому боту.\nОбратитесь к администратору для получения доступа."

	msgWelcome = "👋 Привет! Я бот для учёта доходов и расходов.\n\n" +
		"Вы можете:\n" +
		"• Отправить голосовое сообщение с описанием операции\n" +
		"• Отправить фото с QR-кодом чека\n" +
		"• Написать операцию текстом\n\n" +
		"Доступные команды:\n" +
		"/stats - Показать статистику за месяц\n" +
		"/categories - Показать список категорий\n" +
		"/add_category - Добавить категорию\n" +
		"/add_keyword - Добавить ключевое слово\n" +
		"/delete - Удалить последнюю запись\n" +
		"/select_table - Выбрать таблицу для записи\n" +
		"/help - Показать это сообщение"

	msgHelp = "📝 Доступные команды:\n\n" +
		"/start - Начать работу с ботом\n" +
		"/stats - Показать статистику за месяц\n" +
		"/categories - Показать список категорий\n" +
		"/add_category <тип> <название> - Добавить категорию\n" +
		"/add_keyword <тип> <слово> <категория> - Добавить ключевое слово\n" +
		"/delete - Удалить последнюю запись\n" +
		"/select_table - Выбрать таблицу для записи\n" +
		"/help - Показать это сообщение\n\n" +
		"Вы также можете отправить голосовое сообщение, фото с QR-кодом " +
		"или просто написать операцию текстом."

	msgNoAmount      = "❌ Не удалось определить сумму."
	msgVoiceFailed   = "❌ Не удалось распознать голосовое сообщение. Попробуйте еще раз."
	msgVoiceError    = "❌ Произошла ошибка при обработке голосового сообщения."
	msgSaveError     = "❌ Статус: Произошла ошибка при сохранении транзакции."
	msgSaved         = "✅ Статус: Транзакция успешно сохранена!"
	msgCanceled      = "❌ Статус: Транзакция отменена."
	msgStatsError    = "❌ Произошла ошибка при получении статистики."
	msgPhotoPending  = "📷 Распознавание QR-кодов пока в разработке. Опишите покупку текстом или голосом."
	msgDeletePending = "🗑 Удаление последней записи пока в разработке."
	msgReceiptFailed = "❌ Не удалось разобрать данные чека."
	msgChooseTable   = "В какую таблицу будем записывать транзакции?"
	msgUnknownChoice = "Ошибка выбора"
)

// transactionSummary renders the type/category/amount/comment block shared
// by the confirmation prompt and the final status message.
func transactionSummary(r models.TransactionRecord) string {
	category := r.Category
	if category == "" {
		category = "—"
	}
	return fmt.Sprintf(
		"Тип: %s\nКатегория: %s\nСумма: %s руб.\nКомментарий: %s",
		r.Type.Label(), category, r.Amount.Decimal.String(), r.Comment,
	)
}

func confirmPrompt(r models.TransactionRecord) string {
	return "Подтвердите транзакцию:\n\n" + transactionSummary(r)
}

func categoryPrompt(r models.TransactionRecord) string {
	return fmt.Sprintf(
		"Вы сказали: %s\n\nТип: %s\nСумма: %s руб.\n\nВыберите категорию:",
		r.Comment, r.Type.Label(), r.Amount.Decimal.String(),
	)
}

func statsMessage(stats models.MonthlyStatistics) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Статистика за текущий месяц:\n\n")
	fmt.Fprintf(&sb, "Доходы: %s руб.\n", stats.TotalIncome.StringFixed(2))
	fmt.Fprintf(&sb, "Расходы: %s руб.\n", stats.TotalExpense.StringFixed(2))
	fmt.Fprintf(&sb, "Средний расход в день: %s руб.\n\n", stats.AvgDailyExpense.StringFixed(2))
	sb.WriteString("Топ расходы:\n")
	for _, top := range stats.TopExpenses {
		fmt.Fprintf(&sb, "• %s: %s руб.\n", top.Category, top.Amount.StringFixed(2))
	}
	return sb.String()
}

func categoriesMessage(income, expense []string) string {
	var sb strings.Builder
	sb.WriteString("📂 Категории\n\nДоходы:\n")
	for _, name := range income {
		fmt.Fprintf(&sb, "• %s\n", name)
	}
	sb.WriteString("\nРасходы:\n")
	for _, name := range expense {
		fmt.Fprintf(&sb, "• %s\n", name)
	}
	return sb.String()
}
