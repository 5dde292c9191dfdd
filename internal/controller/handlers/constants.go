package handlers

// Префиксы callback data
const (
	CallbackNoop         = "noop"
	CallbackTutor        = "tutor:"         // tutor:<uid>
	CallbackBook         = "book:"          // book:<card>:<subject index>:<unix>
	CallbackMode         = "mode:"          // mode:student | mode:tutor
	CallbackProfileTutor = "profile_tutor:" // profile_tutor:yes | profile_tutor:no
)

const (
	modeStudent = "student"
	modeTutor   = "tutor"
)

// Ограничения ввода
const (
	NameMaxLength  = 100
	AboutMaxLength = 1000
	MaxPrice       = 1_000_000

	// Слоты в одном ряду клавиатуры
	slotsPerRow = 3
)
