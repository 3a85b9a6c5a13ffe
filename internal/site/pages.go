package site

import "github.com/calk-kg/calk/pkg/format"

var homeTitle = format.Text{Ru: "Главная", Ky: "Башкы бет"}

var categories = []Category{
	{ID: "finance", Name: format.Text{Ru: "Финансы", Ky: "Финансы"}},
	{ID: "auto", Name: format.Text{Ru: "Авто", Ky: "Авто"}},
	{ID: "taxes", Name: format.Text{Ru: "Налоги", Ky: "Салыктар"}},
}

var pages = []Page{
	{
		ID:   "",
		Kind: Home,
		Title: format.Text{
			Ru: "Calk.KG - онлайн калькуляторы Кыргызстана",
			Ky: "Calk.KG - Кыргызстандын онлайн калькуляторлору",
		},
		Description: format.Text{
			Ru: "Бесплатные финансовые калькуляторы для жителей Кыргызстана: кредиты, депозиты и налоги.",
			Ky: "Кыргызстандын тургундары үчүн акысыз финансылык калькуляторлор: насыялар, депозиттер жана салыктар.",
		},
		ChangeFreq: "daily",
		Priority:   1.0,
	},
	{
		ID:       "auto-loan",
		Kind:     Calculator,
		Category: "auto",
		Title:    format.Text{Ru: "Калькулятор автокредита", Ky: "Автонасыя калькулятору"},
		Description: format.Text{
			Ru: "Рассчитайте ежемесячный платёж, переплату и полную стоимость автокредита в банках Кыргызстана.",
			Ky: "Кыргызстандын банктарындагы автонасыянын айлык төлөмүн, ашыкча төлөмүн жана толук баасын эсептеңиз.",
		},
		Inputs:  []string{"carPrice", "downPayment", "termMonths", "interestRate"},
		Outputs: []string{"monthlyPayment", "overpayment", "totalCost"},
		FAQ: []FAQ{
			{
				Question: format.Text{Ru: "Как рассчитывается платёж по автокредиту?", Ky: "Автонасыянын төлөмү кантип эсептелет?"},
				Answer: format.Text{
					Ru: "Используется аннуитетная формула: сумма кредита равна цене автомобиля минус первоначальный взнос, платёж одинаков каждый месяц.",
					Ky: "Аннуитеттик формула колдонулат: насыянын суммасы унаанын баасынан алгачкы төгүмдү кемиткенге барабар, төлөм ар ай бирдей.",
				},
			},
		},
		ChangeFreq: "weekly",
		Priority:   0.9,
	},
	{
		ID:       "loan",
		Kind:     Calculator,
		Category: "finance",
		Title:    format.Text{Ru: "Кредитный калькулятор", Ky: "Насыя калькулятору"},
		Description: format.Text{
			Ru: "Ежемесячный платёж, переплата и эффективная ставка потребительского кредита.",
			Ky: "Керектөө насыясынын айлык төлөмү, ашыкча төлөмү жана натыйжалуу чени.",
		},
		Inputs:  []string{"amount", "termMonths", "interestRate"},
		Outputs: []string{"monthlyPayment", "totalAmount", "overpayment", "effectiveRate"},
		FAQ: []FAQ{
			{
				Question: format.Text{Ru: "Что такое эффективная ставка?", Ky: "Натыйжалуу чен деген эмне?"},
				Answer: format.Text{
					Ru: "Это переплата по кредиту в процентах от суммы кредита за весь срок.",
					Ky: "Бул насыянын бүт мөөнөтүндөгү ашыкча төлөмдүн насыянын суммасына карата пайызы.",
				},
			},
		},
		ChangeFreq: "weekly",
		Priority:   0.9,
	},
	{
		ID:       "mortgage",
		Kind:     Calculator,
		Category: "finance",
		Title:    format.Text{Ru: "Ипотечный калькулятор", Ky: "Ипотека калькулятору"},
		Description: format.Text{
			Ru: "Рассчитайте ипотеку: ежемесячный платёж, переплата и сравнение ставок банков Кыргызстана.",
			Ky: "Ипотеканы эсептеңиз: айлык төлөм, ашыкча төлөм жана Кыргызстандын банктарынын чендерин салыштыруу.",
		},
		Inputs:     []string{"propertyValue", "downPayment", "termYears", "interestRate"},
		Outputs:    []string{"monthlyPayment", "totalAmount", "overpayment"},
		ChangeFreq: "weekly",
		Priority:   0.9,
	},
	{
		ID:       "deposit",
		Kind:     Calculator,
		Category: "finance",
		Title:    format.Text{Ru: "Депозитный калькулятор", Ky: "Депозит калькулятору"},
		Description: format.Text{
			Ru: "Доход по вкладу с простыми и сложными процентами в сомах, долларах, евро и рублях.",
			Ky: "Жөнөкөй жана татаал пайыздар менен сом, доллар, евро жана рублдагы салымдан киреше.",
		},
		Inputs:  []string{"principal", "annualRate", "termMonths", "interestType", "currency"},
		Outputs: []string{"interestEarned", "finalAmount"},
		FAQ: []FAQ{
			{
				Question: format.Text{Ru: "Чем сложный процент отличается от простого?", Ky: "Татаал пайыз жөнөкөйдөн эмнеси менен айырмаланат?"},
				Answer: format.Text{
					Ru: "При сложном проценте доход ежемесячно прибавляется к вкладу и сам приносит проценты.",
					Ky: "Татаал пайызда киреше ар ай салымга кошулуп, өзү да пайыз алып келет.",
				},
			},
		},
		ChangeFreq: "weekly",
		Priority:   0.9,
	},
	{
		ID:       "property-tax",
		Kind:     Calculator,
		Category: "taxes",
		Title:    format.Text{Ru: "Калькулятор налога на имущество", Ky: "Мүлк салыгынын калькулятору"},
		Description: format.Text{
			Ru: "Налог на квартиру или дом с учётом льготной площади 80 и 150 квадратных метров.",
			Ky: "80 жана 150 чарчы метр жеңилдетилген аянтты эске алуу менен батир же үй салыгы.",
		},
		Inputs:     []string{"totalArea", "taxRate", "propertyType", "applyBenefit"},
		Outputs:    []string{"taxableArea", "taxAmount"},
		ChangeFreq: "monthly",
		Priority:   0.8,
	},
	{
		ID:       "single-tax",
		Kind:     Calculator,
		Category: "taxes",
		Title:    format.Text{Ru: "Калькулятор единого налога", Ky: "Бирдиктүү салык калькулятору"},
		Description: format.Text{
			Ru: "Единый налог для ИП: ставки 4% и 6% по видам деятельности и лимит оборота 12 млн сомов.",
			Ky: "ЖИ үчүн бирдиктүү салык: ишмердүүлүк түрлөрү боюнча 4% жана 6% чендер жана 12 млн сом жүгүртүү чеги.",
		},
		Inputs:     []string{"monthlyRevenue", "activityType"},
		Outputs:    []string{"monthlyTax", "annualTax"},
		ChangeFreq: "monthly",
		Priority:   0.8,
	},
	{
		ID:          "about",
		Kind:        Static,
		Title:       format.Text{Ru: "О проекте", Ky: "Долбоор жөнүндө"},
		Description: format.Text{Ru: "Calk.KG - онлайн калькуляторы для жителей Кыргызстана.", Ky: "Calk.KG - Кыргызстандын тургундары үчүн онлайн калькуляторлор."},
		ChangeFreq:  "monthly",
		Priority:    0.5,
	},
	{
		ID:          "contact",
		Kind:        Static,
		Title:       format.Text{Ru: "Контакты", Ky: "Байланыш"},
		Description: format.Text{Ru: "Напишите нам: вопросы, предложения и сообщения об ошибках.", Ky: "Бизге жазыңыз: суроолор, сунуштар жана каталар тууралуу билдирүүлөр."},
		ChangeFreq:  "monthly",
		Priority:    0.5,
	},
	{
		ID:          "privacy-policy",
		Kind:        Static,
		Title:       format.Text{Ru: "Политика конфиденциальности", Ky: "Купуялуулук саясаты"},
		Description: format.Text{Ru: "Как Calk.KG обращается с данными посетителей.", Ky: "Calk.KG келүүчүлөрдүн маалыматтары менен кантип иштейт."},
		ChangeFreq:  "yearly",
		Priority:    0.3,
	},
	{
		ID:          "terms-of-service",
		Kind:        Static,
		Title:       format.Text{Ru: "Условия использования", Ky: "Колдонуу шарттары"},
		Description: format.Text{Ru: "Правила использования калькуляторов Calk.KG.", Ky: "Calk.KG калькуляторлорун колдонуу эрежелери."},
		ChangeFreq:  "yearly",
		Priority:    0.3,
	},
	{
		ID:          "disclaimer",
		Kind:        Static,
		Title:       format.Text{Ru: "Отказ от ответственности", Ky: "Жоопкерчиликтен баш тартуу"},
		Description: format.Text{Ru: "Результаты расчётов носят справочный характер.", Ky: "Эсептөөлөрдүн натыйжалары маалымдама мүнөзүндө."},
		ChangeFreq:  "yearly",
		Priority:    0.3,
	},
	{
		ID:          "sitemap",
		Kind:        Static,
		Title:       format.Text{Ru: "Карта сайта", Ky: "Сайттын картасы"},
		Description: format.Text{Ru: "Все калькуляторы и страницы Calk.KG.", Ky: "Calk.KG бардык калькуляторлору жана барактары."},
		ChangeFreq:  "weekly",
		Priority:    0.4,
	},
}
