package locale

import dErrors "poltem/pkg/domain-errors"

// Notice keys that are not error codes.
const (
	NoticeProfileSaved       = "profile_saved"
	NoticeProfilePending     = "profile_pending_permission"
	NoticeRegistered         = "registered"
	NoticeOTPSent            = "otp_sent"
	NoticeRecoveryCodeSent   = "recovery_code_sent"
	NoticePasswordUpdated    = "password_updated"
	NoticeSurveyCreated      = "survey_created"
	NoticeSurveyCompleted    = "survey_completed"
	NoticeSignInConfirmed    = "sign_in_confirmed"
	NoticeDisplayIDCopyHint  = "display_id_copy_hint"
	NoticeSurveyLoadFailed   = "survey_load_failed"
	NoticeSessionMissing     = "session_missing"
	NoticeUnexpected         = "unexpected"
	NoticeDeclarationTitle   = "declaration_title"
	NoticeDeclarationBody    = "declaration_body"
	NoticeDeclarationConfirm = "declaration_confirm"
)

var catalog = map[string]map[string]string{
	Turkish: {
		string(dErrors.CodeValidation):         "Lütfen tüm alanları doldurun.",
		string(dErrors.CodeBadRequest):         "İstek okunamadı.",
		string(dErrors.CodeInvalidCredentials): "E-posta veya şifre hatalı.",
		string(dErrors.CodeEmailNotConfirmed):  "Lütfen e-posta adresinizi onaylayın.",
		string(dErrors.CodeUserNotFound):       "Bu e-posta adresine ait bir kullanıcı bulunamadı.",
		string(dErrors.CodeRateLimited):        "Çok fazla istek gönderildi. Lütfen birkaç dakika bekleyip tekrar deneyiniz.",
		string(dErrors.CodeInvalidOTP):         "Kod hatalı veya süresi dolmuş olabilir. Tekrar deneyin.",
		string(dErrors.CodeWeakPassword):       "Şifre en az 8 karakter olmalı; büyük harf, küçük harf, rakam ve özel karakter içermelidir.",
		string(dErrors.CodePasswordMismatch):   "Şifreler eşleşmiyor.",
		string(dErrors.CodeConsentRequired):    "Sözleşmeleri onaylamanız gerekmektedir.",
		string(dErrors.CodeAlreadyRegistered):  "Bu e-posta adresi ile zaten bir hesap var.",
		string(dErrors.CodeUnauthorized):       "Kullanıcı oturumu bulunamadı. Lütfen tekrar giriş yapın.",
		string(dErrors.CodeForbidden):          "Bu işlem için yetkiniz yok.",
		string(dErrors.CodePermissionDenied):   "Bu işlem için veritabanı izni yok.",
		string(dErrors.CodeNotFound):           "Kayıt bulunamadı.",
		string(dErrors.CodeInvalidState):       "Bu adım şu anda uygulanamaz.",
		string(dErrors.CodeCodeMismatch):       "Girdiğiniz tamamlama kodu hatalı. Lütfen kontrol edin.",
		string(dErrors.CodeSurveyUnavailable):  "Anket Yüklenemedi. Lütfen geri dönüp tekrar deneyin.",
		string(dErrors.CodeSurveyLinkMissing):  "Anket linki bulunamadı.",
		string(dErrors.CodeUnavailable):        "Servis şu anda kullanılamıyor. Lütfen daha sonra tekrar deneyin.",
		string(dErrors.CodeTimeout):            "İstek zaman aşımına uğradı.",
		NoticeProfileSaved:                     "Profil bilgileriniz güncellendi.",
		NoticeProfilePending:                   "Kayıt işlemi veritabanı izni bekliyor, ama devam edebilirsiniz.",
		NoticeRegistered:                       "Hesabınız oluşturuldu.",
		NoticeOTPSent:                          "Doğrulama kodu telefonunuza iletildi.",
		NoticeRecoveryCodeSent:                 "E-posta adresinize 6 haneli bir doğrulama kodu gönderilmiştir.",
		NoticePasswordUpdated:                  "Şifreniz güncellendi. Yeni şifrenizle giriş yapabilirsiniz.",
		NoticeSurveyCreated:                    "Anketiniz oluşturuldu ve yayına alındı.",
		NoticeSurveyCompleted:                  "Anket başarıyla tamamlandı.",
		NoticeSignInConfirmed:                  "Giriş işleminiz onaylandı!",
		NoticeDisplayIDCopyHint:                "Formun başında bu ID'yi ilgili alana yapıştırın.",
		NoticeSurveyLoadFailed:                 "Anket Yüklenemedi",
		NoticeSessionMissing:                   "Kullanıcı oturumu bulunamadı. Lütfen tekrar giriş yapın.",
		NoticeUnexpected:                       "Beklenmeyen bir hata oluştu.",
		NoticeDeclarationTitle:                 "Gönüllü Katılım Beyanı",
		NoticeDeclarationBody: "Bu araştırma çalışmasına katılmayı kabul eden kişinin onay beyanıdır.\n\n" +
			"• Araştırmanın amacını, yöntemlerini ve sürecini anladım.\n" +
			"• Katılmam tamamen gönüllüdür ve herhangi bir zorlama altında değilim.\n" +
			"• Bilgilerimin gizli tutulacağını ve sadece araştırma amaçlı kullanılacağını kabul ediyorum.\n" +
			"• İstediğim an araştırmadan çekilme hakkına sahibim.",
		NoticeDeclarationConfirm: "ARAŞTIRMAYA KATIL",
	},
	English: {
		string(dErrors.CodeValidation):         "Please fill in all fields.",
		string(dErrors.CodeBadRequest):         "The request could not be read.",
		string(dErrors.CodeInvalidCredentials): "E-mail or password is incorrect.",
		string(dErrors.CodeEmailNotConfirmed):  "Please confirm your e-mail address.",
		string(dErrors.CodeUserNotFound):       "No user was found for this e-mail address.",
		string(dErrors.CodeRateLimited):        "Too many requests. Please wait a few minutes and try again.",
		string(dErrors.CodeInvalidOTP):         "The code is wrong or has expired. Please try again.",
		string(dErrors.CodeWeakPassword):       "Password must be at least 8 characters and include upper and lower case letters, a digit, and a special character.",
		string(dErrors.CodePasswordMismatch):   "Passwords do not match.",
		string(dErrors.CodeConsentRequired):    "You need to accept the agreements.",
		string(dErrors.CodeAlreadyRegistered):  "An account with this e-mail address already exists.",
		string(dErrors.CodeUnauthorized):       "No user session found. Please sign in again.",
		string(dErrors.CodeForbidden):          "You are not allowed to do this.",
		string(dErrors.CodePermissionDenied):   "The database did not grant permission for this action.",
		string(dErrors.CodeNotFound):           "Record not found.",
		string(dErrors.CodeInvalidState):       "This step cannot be applied right now.",
		string(dErrors.CodeCodeMismatch):       "The completion code you entered is wrong. Please check it.",
		string(dErrors.CodeSurveyUnavailable):  "Survey could not be loaded. Please go back and try again.",
		string(dErrors.CodeSurveyLinkMissing):  "Survey link not found.",
		string(dErrors.CodeUnavailable):        "The service is unavailable right now. Please try again later.",
		string(dErrors.CodeTimeout):            "The request timed out.",
		NoticeProfileSaved:                     "Your profile has been updated.",
		NoticeProfilePending:                   "Saving is waiting for database permission, but you may continue.",
		NoticeRegistered:                       "Your account has been created.",
		NoticeOTPSent:                          "A verification code was sent to your phone.",
		NoticeRecoveryCodeSent:                 "A 6-digit verification code was sent to your e-mail address.",
		NoticePasswordUpdated:                  "Your password was updated. You can sign in with your new password.",
		NoticeSurveyCreated:                    "Your survey was created and published.",
		NoticeSurveyCompleted:                  "Survey completed successfully.",
		NoticeSignInConfirmed:                  "Your sign-in was confirmed!",
		NoticeDisplayIDCopyHint:                "Paste this ID into the matching field at the start of the form.",
		NoticeSurveyLoadFailed:                 "Survey could not be loaded",
		NoticeSessionMissing:                   "No user session found. Please sign in again.",
		NoticeUnexpected:                       "An unexpected error occurred.",
		NoticeDeclarationTitle:                 "Voluntary Participation Declaration",
		NoticeDeclarationBody: "This is the consent statement of the person agreeing to take part in this research.\n\n" +
			"• I understand the purpose, methods, and process of the research.\n" +
			"• My participation is entirely voluntary and not under any pressure.\n" +
			"• I accept that my information will be kept confidential and used only for research.\n" +
			"• I may withdraw from the research at any time.",
		NoticeDeclarationConfirm: "JOIN THE RESEARCH",
	},
}

// Notice returns the localized text for key, falling back to the default
// locale. ok is false when neither locale knows the key.
func Notice(l, key string) (string, bool) {
	if msg, ok := catalog[Normalize(l)][key]; ok {
		return msg, true
	}
	msg, ok := catalog[Default][key]
	return msg, ok
}

// T is Notice without the presence flag; unknown keys render as the key.
func T(l, key string) string {
	if msg, ok := Notice(l, key); ok {
		return msg
	}
	return key
}

// ForCode returns the localized notice for an error code.
func ForCode(l string, code dErrors.Code) (string, bool) {
	return Notice(l, string(code))
}

// Declaration is the participation consent text shown before step 2.
type Declaration struct {
	Title   string `json:"title"`
	Body    string `json:"body"`
	Confirm string `json:"confirm"`
}

func DeclarationFor(l string) Declaration {
	return Declaration{
		Title:   T(l, NoticeDeclarationTitle),
		Body:    T(l, NoticeDeclarationBody),
		Confirm: T(l, NoticeDeclarationConfirm),
	}
}
