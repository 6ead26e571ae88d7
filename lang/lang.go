package lang

import (
	"fmt"
	"strings"
)

type Lang string

const (
	Uz Lang = "uz"
	Ru Lang = "ru"
)

// Parse maps a user supplied code to a supported language, defaulting to Uzbek.
func Parse(code string) Lang {
	if strings.EqualFold(strings.TrimSpace(code), string(Ru)) {
		return Ru
	}
	return Uz
}

var messages = map[Lang]map[string]string{
	Uz: {
		"added":               "Qo'shildi",
		"added_to_cart":       "%s savatchaga qo'shildi",
		"error":               "Xatolik",
		"cart_empty":          "Savatcha bo'sh",
		"order_accepted":      "Buyurtma qabul qilindi",
		"order_accepted_desc": "Buyurtmangiz muvaffaqiyatli qabul qilindi",
		"order_failed":        "Buyurtma berishda xatolik yuz berdi",
		"refreshed":           "Yangilandi",
		"refreshed_desc":      "Mahsulotlar yangilandi",
		"currency":            "so'm",
		"total":               "Jami:",
		"payment_method":      "To'lov usuli:",
		"cash":                "Naqd pul",
		"card":                "Karta",
		"login_success":       "Muvaffaqiyatli kirish",
		"login_success_desc":  "Admin paneliga muvaffaqiyatli kirdingiz",
		"invalid_credentials": "Foydalanuvchi nomi yoki parol noto'g'ri",
		"load_failed":         "Mahsulotlarni yuklashda xatolik yuz berdi",
		"created":             "Muvaffaqiyatli qo'shildi",
		"created_desc":        "Yangi mahsulot muvaffaqiyatli qo'shildi va asosiy sahifada ko'rinadi",
		"updated":             "Muvaffaqiyatli yangilandi",
		"updated_desc":        "Mahsulot muvaffaqiyatli yangilandi va asosiy sahifada ko'rinadi",
		"operation_failed":    "Amaliyotni bajarishda xatolik yuz berdi",
		"missing_field":       "Majburiy maydon to'ldirilmagan: %s",
		"delete_confirm":      "Mahsulotni o'chirishni xohlaysizmi? Bu mahsulot asosiy sahifadan ham o'chiriladi.",
		"deleted":             "Muvaffaqiyatli o'chirildi",
		"deleted_desc":        "Mahsulot muvaffaqiyatli o'chirildi va asosiy sahifadan yo'qoldi",
		"delete_failed":       "Mahsulotni o'chirishda xatolik yuz berdi",
		"image_uploaded":      "Rasm yuklandi",
		"image_uploaded_desc": "Rasm muvaffaqiyatli yuklandi",
		"image_upload_failed": "Rasmni yuklashda xatolik yuz berdi",
		"new_order":           "Yangi buyurtma #%d",
		"order_line":          "%s × %d = %s %s",
		"category_hotdog":     "Hotdog",
		"category_burger":     "Burger",
		"category_sandwich":   "Sendvich",
		"category_sides":      "Qo'shimchalar",
		"category_drinks":     "Ichimliklar",
		"category_combo":      "Kombo",
	},
	Ru: {
		"added":               "Добавлено",
		"added_to_cart":       "%s добавлен в корзину",
		"error":               "Ошибка",
		"cart_empty":          "Корзина пуста",
		"order_accepted":      "Заказ принят",
		"order_accepted_desc": "Ваш заказ успешно принят",
		"order_failed":        "Произошла ошибка при оформлении заказа",
		"refreshed":           "Обновлено",
		"refreshed_desc":      "Продукты обновлены",
		"currency":            "сум",
		"total":               "Итого:",
		"payment_method":      "Способ оплаты:",
		"cash":                "Наличные",
		"card":                "Карта",
		"login_success":       "Успешный вход",
		"login_success_desc":  "Вы успешно вошли в панель администратора",
		"invalid_credentials": "Неверное имя пользователя или пароль",
		"load_failed":         "Ошибка при загрузке продуктов",
		"created":             "Успешно добавлено",
		"created_desc":        "Новый продукт добавлен и виден на главной странице",
		"updated":             "Успешно обновлено",
		"updated_desc":        "Продукт обновлён и виден на главной странице",
		"operation_failed":    "Ошибка при выполнении операции",
		"missing_field":       "Не заполнено обязательное поле: %s",
		"delete_confirm":      "Удалить продукт? Он также исчезнет с главной страницы.",
		"deleted":             "Успешно удалено",
		"deleted_desc":        "Продукт удалён и исчез с главной страницы",
		"delete_failed":       "Ошибка при удалении продукта",
		"image_uploaded":      "Изображение загружено",
		"image_uploaded_desc": "Изображение успешно загружено",
		"image_upload_failed": "Ошибка при загрузке изображения",
		"new_order":           "Новый заказ #%d",
		"order_line":          "%s × %d = %s %s",
		"category_hotdog":     "Хотдог",
		"category_burger":     "Бургер",
		"category_sandwich":   "Сэндвич",
		"category_sides":      "Дополнения",
		"category_drinks":     "Напитки",
		"category_combo":      "Комбо",
	},
}

// T returns the message for key in l, falling back to Uzbek and then to the key itself.
func T(l Lang, key string) string {
	if msg, ok := messages[l][key]; ok {
		return msg
	}
	if msg, ok := messages[Uz][key]; ok {
		return msg
	}
	return key
}

func Tf(l Lang, key string, args ...any) string {
	return fmt.Sprintf(T(l, key), args...)
}

// Category returns the section title for a menu category.
func Category(l Lang, category string) string {
	return T(l, "category_"+category)
}
