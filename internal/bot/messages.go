package bot

// User error messages (user mistakes, shown directly)
const (
	MsgNotAuthorized          = "🚫 Эта команда доступна только администраторам бота"
	MsgNoActivePoll           = "❌ Сейчас нет активного голосования"
	MsgStalePoll              = "❌ Голосование устарело"
	MsgInvalidOption          = "❌ Неизвестный вариант ответа"
	MsgPollMessageMissing     = "❌ Сообщение с голосованием не найдено. Создайте новое командой /poll"
	MsgCannotRemoveSuperAdmin = "❌ Главного администратора нельзя удалить"
	MsgAlreadyAdmin           = "ℹ️ Пользователь уже администратор"
	MsgNotAdmin               = "ℹ️ Пользователь не администратор"
	MsgTargetRequired         = "Ответьте на сообщение пользователя или укажите его ID"
	MsgInvalidUserID          = "❌ Неверный ID пользователя"
	MsgInvalidDuration        = "❌ Неверная длительность. Примеры: 30m, 2h, 1d, 1w"
	MsgMuteUsage              = "Использование: /mute <длительность> (ответом на сообщение) или /mute <ID> <длительность>"
	MsgCannotModerateAdmin    = "❌ Нельзя применить к администратору бота"
	MsgGroupOnly              = "❌ Команда работает только в группах"
)

// System error messages (internal errors, hide details from user)
const (
	MsgInternalError   = "❌ Произошла внутренняя ошибка. Попробуйте позже."
	MsgFailedSendPoll  = "❌ Не удалось отправить голосование. Попробуйте ещё раз."
	MsgFailedRender    = "❌ Не удалось сформировать сообщение. Попробуйте ещё раз."
	MsgFailedRefresh   = "❌ Не удалось обновить голосование. Попробуйте ещё раз."
	MsgFailedModerate  = "❌ Не удалось выполнить действие. Проверьте права бота в чате."
	MsgAdminActionFail = "❌ Ошибка"
)

// Callback answers and short confirmations
const (
	MsgPollRefreshed    = "✅ Голосование обновлено!"
	MsgVotesCleared     = "✅ Все голоса очищены!"
	MsgPollCreated      = "✅ Голосование создано!"
	MsgAdminAdded       = "✅ Администратор добавлен"
	MsgAdminRemoved     = "✅ Администратор удалён"
	MsgYouAreAdmin      = "✅ Вы администратор в этом чате"
	MsgYouAreNotAdmin   = "❌ Вы не администратор в этом чате"
	MsgUnmuted          = "🔊 Ограничения сняты"
	MsgUnbanned         = "✅ Пользователь разбанен"
	MsgFmtVoteRecorded  = "✅ %s"
	MsgFmtMuted         = "🔇 %s замьючен на %s"
	MsgFmtBanned        = "⛔ %s забанен на %s"
	MsgFmtBannedForever = "⛔ %s забанен навсегда"
	MsgFmtKicked        = "👢 %s исключён из чата"
)

// /attendance replies
const (
	MsgPollAlreadyActive = "Голосование уже активно! Используйте кнопки в закреплённом сообщении."
	MsgFmtNoPollYet      = "❌ Сейчас нет активного голосования. Новое создастся %s в %s"
)

const MsgResultsButton = "📊 Посмотреть результаты"

// Admin panel buttons
const (
	MsgPanelStats   = "📊 Полная статистика"
	MsgPanelRefresh = "🔄 Обновить голосование"
	MsgPanelClear   = "🗑️ Очистить голоса"
	MsgPanelCreate  = "📅 Создать голосование сейчас"
)
