package state

// UserState представляет текущий шаг диалога в чате
type UserState string

const (
	StateNone UserState = "" // Нет активного диалога

	// Регистрация и вход
	StateSignUpEmail    UserState = "sign_up_email"
	StateSignUpPassword UserState = "sign_up_password"
	StateSignInEmail    UserState = "sign_in_email"
	StateSignInPassword UserState = "sign_in_password"

	// Редактирование профиля
	StateProfileName  UserState = "profile_name"
	StateProfilePrice UserState = "profile_price"
	StateProfileAbout UserState = "profile_about"
)

// Ключи временных данных диалога
const (
	KeyEmail = "email"
	KeyName  = "name"
	KeyPrice = "price"
	KeyAbout = "about"
)

// ChatData хранит временные данные чата во время диалога
type ChatData struct {
	State UserState
	Data  map[string]interface{}
}
