package events

// Conditions shared by several events.
func strongArmy(s State) bool { return s.ArmyPower >= 5000 }
func lowLoyalty(s State) bool { return s.Loyalty < 40 }
func coastal(s State) bool    { return s.Coastal }
func kizilbas(s State) bool   { return s.KizilbasThreat >= 30 }

func ch(text, desc string, effects map[string]int) Choice {
	return Choice{Text: text, Description: desc, Effects: effects}
}

var pool = []*Event{
	// Economic
	{
		ID: "trade_caravan", Title: "Ticaret Kervanı", Type: Economic, Severity: Minor,
		Description: "Uzak diyarlardan zengin bir kervan geçiyor.",
		Choices: []Choice{
			ch("Vergi al", "300 altın kazandınız", map[string]int{"gold": 300}),
			ch("Koruma sağla", "Ticaret ilişkileri güçlendi", map[string]int{"gold": -100, "trade_modifier": 5, "happiness": 2}),
			ch("Görmezden gel", "Kervan geçip gitti", nil),
		},
	},
	{
		ID: "crop_failure", Title: "Hasat Sorunu", Type: Economic, Severity: Moderate,
		Description: "Bu yılın hasadı beklenenden kötü.",
		Choices: []Choice{
			ch("Yiyecek ithal et", "Dışarıdan yiyecek getirttiniz", map[string]int{"gold": -500, "food": 500, "happiness": 5}),
			ch("Vergiyi düşür", "Halk rahatladı ama gelirler düştü", map[string]int{"tax_modifier": -10, "happiness": 10}),
			ch("Hiçbir şey yapma", "Halk hoşnutsuz", map[string]int{"happiness": -15, "unrest": 10}),
		},
	},
	{
		ID: "rich_caravan", Title: "Zengin Kervan", Type: Economic, Severity: Moderate,
		Description: "İpek Yolu'ndan gelen bir kervan koruma teklif ediyor.",
		Choices: []Choice{
			ch("Koruma sağla", "Tüccarlar memnun", map[string]int{"gold": 600, "trade_modifier": 5}),
			ch("Vergi al", "Vergi alındı", map[string]int{"gold": 400}),
			ch("Yağmala", "İtibar zedelendi", map[string]int{"gold": 1200, "happiness": -15, "loyalty": -10}),
		},
	},
	{
		ID: "pirate_attack", Title: "Korsan Saldırısı", Type: Economic, Severity: Major,
		Description: "Korsanlar gemilerimize saldırdı.",
		Condition: coastal,
		Choices: []Choice{
			ch("Donanma gönder", "Korsanlar temizlendi", map[string]int{"gold": -800, "trade_modifier": 10}),
			ch("Fidye öde", "Gemiler kurtarıldı", map[string]int{"gold": -500}),
			ch("Kayıpları kabul et", "Mallar kayboldu", map[string]int{"gold": -300, "trade_modifier": -10}),
		},
	},
	{
		ID: "trade_embargo", Title: "Ticaret Ambargosu", Type: Economic, Severity: Major, MinTurn: 12,
		Description: "Düşman bir komşu ticaret yolumuzu kapattı.",
		Choices: []Choice{
			ch("Alternatif yol bul", "Yeni yol maliyetli", map[string]int{"gold": -600, "trade_modifier": -5}),
			ch("Diplomatik çözüm", "Ambargo kaldırıldı", map[string]int{"gold": -400, "neighbor_relation": 10}),
			ch("Savaş ilan et", "Savaş başladı", map[string]int{"neighbor_relation": -50, "morale": 15, "loyalty": 5}),
		},
	},

	// Military
	{
		ID: "bandit_attack", Title: "Eşkıya Saldırısı", Type: Military, Severity: Moderate,
		Description: "Eşkıya çeteleri köylere saldırıyor.",
		Choices: []Choice{
			ch("Ordu gönder", "Eşkıyalar bastırıldı", map[string]int{"military_loss": 10, "happiness": 10, "loyalty": 5}),
			ch("Fidye öde", "Halk utandı", map[string]int{"gold": -800, "happiness": -5}),
			ch("Yerel milisi görevlendir", "Köylüler savaştı", map[string]int{"happiness": -10, "population_loss": 50}),
		},
	},
	{
		ID: "deserters", Title: "Firariler", Type: Military, Severity: Minor,
		Description: "Birkaç asker firar edip dağlara kaçtı.",
		Choices: []Choice{
			ch("Yakalama emri çıkar", "Firariler cezalandırıldı", map[string]int{"gold": -200, "morale": 5}),
			ch("Af çıkar", "Disiplin zayıfladı", map[string]int{"morale": -10, "happiness": 5}),
			ch("Görmezden gel", "Askerler endişeli", map[string]int{"morale": -5}),
		},
	},
	{
		ID: "enemy_raid", Title: "Düşman Akını", Type: Military, Severity: Major, MinTurn: 15,
		Description: "Akıncılar köylerimizi yağmalıyor.",
		Choices: []Choice{
			ch("Askerlerle karşıla", "Akın püskürtüldü", map[string]int{"gold": -200, "soldiers": -20, "morale": 10}),
			ch("Fidye öde", "Hazine boşaldı", map[string]int{"gold": -800, "happiness": -5}),
			ch("Savunmaya çekil", "Köyler yağmalandı", map[string]int{"food": -300, "happiness": -10}),
		},
	},
	{
		ID: "conquest_opportunity", Title: "Fetih Fırsatı", Type: Military, Severity: Major, MinTurn: 15,
		Description: "Komşu beylikte iç savaş çıktı.",
		Choices: []Choice{
			ch("Saldırıya geç", "Padişah memnun", map[string]int{"gold": -500, "soldiers": -30, "neighbor_relation": -40, "loyalty": 10}),
			ch("Fırsatı bekle", "Bekleyip gördük", nil),
			ch("Elçi gönder", "Barış sağlandı", map[string]int{"gold": -200, "neighbor_relation": 20}),
		},
	},
	{
		ID: "janissary_unrest", Title: "Yeniçeri Huzursuzluğu", Type: Military, Severity: Critical, MinTurn: 10,
		Description: "Yeniçeriler maaş artışı talep ediyor.",
		Choices: []Choice{
			ch("Maaşları artır", "Yeniçeriler memnun", map[string]int{"gold": -1500, "morale": 30}),
			ch("Söz ver", "Geçici sakinlik", map[string]int{"morale": -10}),
			ch("Reddet", "İsyan çıktı", map[string]int{"morale": -40, "soldiers": -50}),
		},
	},
	{
		ID: "sipahi_hunt", Title: "Sipahi Sürek Avı", Type: Military, Severity: Minor, Gender: "male",
		Description: "Tımarlı sipahiler valiyi büyük bir sürek avına davet ediyor.",
		Choices: []Choice{
			ch("Ava katıl", "Sipahilerle bağ güçlendi", map[string]int{"gold": -300, "morale": 10, "prestige": 3}),
			ch("Kibarca reddet", "Sipahiler kırıldı", map[string]int{"morale": -3}),
		},
	},
	{
		ID: "belgrade_campaign", Title: "Belgrad Kuşatması", Type: Military, Severity: Critical,
		MinTurn: 5, Condition: strongArmy, ChainID: "balkan_wars", ChainStage: 0,
		Description: "Belgrad kalesi düşerse Avrupa'nın kapısı açılacak.",
		Choices: []Choice{
			{Text: "Tam kuvvetle kuşat", Description: "Kale kuşatıldı", NextStage: "belgrade_victory",
				Effects: map[string]int{"gold": -4000, "soldiers": -100, "prestige": 25}},
			{Text: "Diplomatik yol dene", Description: "Görüşmeler başladı", NextStage: "belgrade_diplomacy",
				Effects: map[string]int{"gold": -1500}},
			ch("Kuşatmayı ertele", "Fırsat kaçtı", map[string]int{"prestige": -10}),
		},
		Stages: map[string]Stage{
			"belgrade_victory": {
				Title: "Belgrad Düştü", Description: "Kale teslim oldu.",
				Choices: []Choice{
					ch("Kaleyi tahkim et", "Sınır güvende", map[string]int{"gold": -1000, "prestige": 5, "morale": 10}),
					ch("Ganimeti dağıt", "Askerler memnun", map[string]int{"gold": 2000, "morale": 15}),
				},
			},
			"belgrade_diplomacy": {
				Title: "Belgrad Müzakeresi", Description: "Macar elçileri şartları bekliyor.",
				Choices: []Choice{
					ch("Antlaşmayı imzala", "Barış sağlandı", map[string]int{"neighbor_relation": 20, "favor": 5}),
					ch("Şartları ağırlaştır", "Haraç alındı", map[string]int{"gold": 1500, "neighbor_relation": -20}),
				},
			},
		},
	},
	{
		ID: "mohac_battle", Title: "Mohaç Savaşı", Type: Military, Severity: Critical,
		MinTurn: 15, Condition: strongArmy, ChainID: "hungarian_campaign", ChainStage: 0,
		Description: "Macar kralı ordusuyla karşımızda.",
		Choices: []Choice{
			ch("Tüm gücünle saldır", "Büyük zafer", map[string]int{"gold": -6000, "soldiers": -150, "prestige": 50, "loyalty": 10}),
			ch("Akıncılarla yıprat", "Sınırlı kazanç", map[string]int{"gold": -3000, "prestige": 20}),
		},
	},
	{
		ID: "vienna_siege", Title: "Viyana Kuşatması", Type: Military, Severity: Critical,
		MinTurn: 20, Condition: strongArmy, ChainID: "hungarian_campaign", ChainStage: 1,
		Description: "Ordu Viyana önlerinde, kış yaklaşıyor.",
		Choices: []Choice{
			ch("Son hücum", "Ağır kayıplar", map[string]int{"gold": -8000, "soldiers": -300, "prestige": -15}),
			ch("Kuşatmayı kaldır", "Ordu geri döndü", map[string]int{"gold": -2000, "prestige": -10}),
			ch("Çevreyi yağmala", "Ganimetle dönüldü", map[string]int{"gold": -3000, "prestige": 5}),
		},
	},

	// Population
	{
		ID: "plague", Title: "Salgın Hastalık", Type: Population, Severity: Critical,
		Description: "Eyalette salgın yayılıyor.",
		Choices: []Choice{
			ch("Karantina uygula", "Ticaret durdu", map[string]int{"gold": -1000, "population_loss": 200, "trade_modifier": -10}),
			ch("Hekimler getir", "Salgın yavaşladı", map[string]int{"gold": -2000, "population_loss": 100, "happiness": 5}),
			ch("Dua et", "Çok can kaybedildi", map[string]int{"population_loss": 500, "happiness": -20}),
		},
	},
	{
		ID: "festival", Title: "Şenlik Talebi", Type: Population, Severity: Minor,
		Description: "Halk büyük bir şenlik istiyor.",
		Choices: []Choice{
			ch("Şenlik düzenle", "Muhteşem bir şenlik", map[string]int{"gold": -500, "happiness": 20, "loyalty": 5}),
			ch("Küçük kutlama yap", "Mütevazı kutlama", map[string]int{"gold": -200, "happiness": 8}),
			ch("Reddet", "Halk kırgın", map[string]int{"happiness": -10}),
		},
	},
	{
		ID: "adalet_sukrani", Title: "Adalet Şükranı", Type: Population, Severity: Minor,
		MinTurn: 10, RequiresMemory: []string{"adalet_fermani"},
		Description: "Adalet fermanından memnun kalan kasabalılar şükran heyeti gönderdi.",
		Choices: []Choice{
			ch("Heyeti kabul et", "Halk valisini seviyor", map[string]int{"happiness": 10, "legitimacy": 5}),
		},
	},
	{
		ID: "prince_mustafa_execution", Title: "Şehzade Mustafa'nın İdamı", Type: Population, Severity: Critical,
		MinTurn: 65, ChainID: "succession_crisis", ChainStage: 0,
		Triggers: "prince_bayezid_revolt", TriggerDelay: 13,
		Description: "Şehzade Mustafa boğduruldu, orduda infial var.",
		Choices: []Choice{
			{Text: "Orduya bahşiş dağıt", Description: "Yeniçeriler yatıştı", Remember: []string{"mustafa_idam"},
				Effects: map[string]int{"gold": -5000, "morale": 10, "loyalty": -15}},
			{Text: "Muhalefeti bastır", Description: "Derin yaralar açıldı", Remember: []string{"mustafa_idam"},
				Effects: map[string]int{"unrest": -20, "loyalty": -25}},
			{Text: "Rüstem Paşa'yı suçla", Description: "Öfke yönlendirildi", Remember: []string{"mustafa_idam"},
				Effects: map[string]int{"loyalty": 5, "prestige": -5}},
		},
	},
	{
		ID: "kizilbas_uprising", Title: "Kızılbaş Hareketleri", Type: Population, Severity: Major,
		Condition: kizilbas,
		Description: "Safevi yanlısı propaganda yayılıyor.",
		Choices: []Choice{
			ch("Sert müdahale", "Tehdit azaldı", map[string]int{"kizilbas_threat": -20, "loyalty": -15, "piety": 5}),
			ch("Hoşgörü politikası", "Barışçıl ama riskli", map[string]int{"kizilbas_threat": 10, "loyalty": 10, "tolerance": 15}),
			ch("Ulema fetvaları yayınlat", "Dini otorite kullanıldı", map[string]int{"kizilbas_threat": -10, "piety": 10, "legitimacy": 5}),
		},
	},
	{
		ID: "ulema_protest", Title: "Ulema Protestosu", Type: Population, Severity: Moderate,
		Description: "Din alimleri bazı uygulamalarınıza itiraz ediyor.",
		Choices: []Choice{
			ch("Ulemanın sözünü dinle", "Dini otorite güçlendi", map[string]int{"piety": 15, "legitimacy": 10}),
			ch("Reformları savun", "Medreseler canlandı", map[string]int{"piety": -10, "education": 10}),
		},
	},
	{
		ID: "millet_unrest", Title: "Millet İsyanı", Type: Population, Severity: Critical,
		Condition: lowLoyalty,
		Description: "Gayrimüslim milletlerden biri ayaklandı.",
		Choices: []Choice{
			ch("Askeri müdahale", "İsyan bastırıldı", map[string]int{"loyalty": -20, "unrest": -25, "tolerance": -10}),
			ch("Özerklik tanı", "Barış sağlandı", map[string]int{"loyalty": 15, "tolerance": 10}),
			ch("Patrikle görüş", "Diplomatik çözüm", map[string]int{"gold": -3000, "loyalty": 10, "piety": -5}),
		},
	},
	{
		ID: "tax_revolt", Title: "Vergi İsyanı", Type: Population, Severity: Major,
		Condition: lowLoyalty,
		Description: "Reaya ağır vergilere karşı ayaklandı.",
		Choices: []Choice{
			ch("İsyanı bastır", "Düzen sağlandı", map[string]int{"loyalty": -20, "soldiers": -20, "unrest": -30}),
			ch("Vergiyi indir", "Halk rahatladı", map[string]int{"tax_modifier": -5, "loyalty": 15}),
			ch("Ayanla uzlaş", "Orta yol bulundu", map[string]int{"gold": -2000, "loyalty": 5, "unrest": -10}),
		},
	},
	{
		ID: "valide_vakif", Title: "Hayır Vakfı Önerisi", Type: Population, Severity: Minor,
		MinTurn: 6, Gender: "female",
		Description: "Sarayın hanımları eyalete bir imaret vakfetmenizi öneriyor.",
		Choices: []Choice{
			ch("İmareti vakfet", "Yoksullar doyuruluyor", map[string]int{"gold": -400, "happiness": 8, "piety": 5}),
			ch("Şimdilik bekle", "Öneri ertelendi", nil),
		},
	},

	// Diplomatic
	{
		ID: "sultan_gift", Title: "Padişahtan Hediye", Type: Diplomatic, Severity: Minor,
		Description: "Padişah sadakatinizi takdir ederek hediye gönderdi.",
		Choices: []Choice{
			ch("Teşekkür et", "Padişahın lütfuna mazhar oldunuz", map[string]int{"gold": 1000, "loyalty": 10}),
		},
	},
	{
		ID: "neighbor_dispute", Title: "Sınır Anlaşmazlığı", Type: Diplomatic, Severity: Moderate,
		Description: "Komşu beylik sınır köylerimiz üzerinde hak iddia ediyor.",
		Choices: []Choice{
			ch("Savaş ilan et", "Padişah memnun", map[string]int{"neighbor_relation": -50, "morale": 10, "loyalty": 5}),
			ch("Görüşme talep et", "Diplomatik çözüm arandı", map[string]int{"gold": -300, "neighbor_relation": 10}),
			ch("Köyleri bırak", "Halk ve padişah kızgın", map[string]int{"population_loss": 100, "happiness": -15, "loyalty": -10}),
		},
	},
	{
		ID: "kanuni_throne", Title: "Kanuni Sultan Süleyman'ın Tahta Çıkışı", Type: Diplomatic, Severity: Major,
		MinTurn: 1, MaxYear: 1521,
		Description: "Sultan Selim Han vefat etti, taht oğlu Süleyman'a geçiyor.",
		Choices: []Choice{
			{Text: "Adalet fermanı yayınla", Description: "Halk memnun", Remember: []string{"adalet_fermani"},
				Effects: map[string]int{"loyalty": 15, "gold": -2000, "legitimacy": 10}},
			ch("Ordu seferberliği ilan et", "Ordu güçlendi", map[string]int{"soldiers": 20, "loyalty": -5}),
			ch("Saray düzenlemesi yap", "İdare düzene girdi", map[string]int{"gold": -5000, "prestige": 5}),
		},
	},
	{
		ID: "prince_bayezid_revolt", Title: "Şehzade Bayezid İsyanı", Type: Diplomatic, Severity: Critical,
		MinTurn: 78, ChainID: "succession_crisis", ChainStage: 1, RequiresMemory: []string{"mustafa_idam"},
		Description: "Bayezid Safevi Şahı'na sığındı, iadesi için altın isteniyor.",
		Choices: []Choice{
			ch("Safevilerle müzakere et", "Pahalı ama çözüm", map[string]int{"gold": -8000, "neighbor_relation": 15}),
			ch("Savaş ilan et", "İki cephe riski", map[string]int{"gold": -5000, "soldiers": -200, "prestige": 10}),
			ch("Sabırlı diplomasi", "İade sağlandı", map[string]int{"gold": -6000, "neighbor_relation": 5}),
		},
	},
	{
		ID: "harem_letter", Title: "Valide Sultan'dan Mektup", Type: Diplomatic, Severity: Minor, Gender: "female",
		Description: "Valide Sultan sarayın sırlarını paylaşan bir mektup gönderdi.",
		Choices: []Choice{
			ch("Sadakatini bildir", "Saray memnun", map[string]int{"favor": 10, "loyalty": 5}),
			ch("Bilgiyi kullan", "İstihbarat kazanıldı", map[string]int{"intelligence": 2, "security": 5}),
		},
	},

	// Natural
	{
		ID: "earthquake", Title: "Deprem", Type: Natural, Severity: Critical,
		Description: "Şiddetli bir deprem büyük hasara yol açtı.",
		Choices: []Choice{
			ch("Acil yardım başlat", "Yardım çalışmaları başladı", map[string]int{"gold": -1500, "health": -5, "happiness": 10}),
			ch("Yeniden inşaya odaklan", "Binalar onarılıyor", map[string]int{"gold": -2000, "wood": -500}),
			ch("Durumu gözle", "Çok kayıp var", map[string]int{"happiness": -25, "population_loss": 300}),
		},
	},
	{
		ID: "drought", Title: "Kuraklık", Type: Natural, Severity: Major,
		Description: "Uzun süreli kuraklık hasadı tehdit ediyor.",
		Choices: []Choice{
			ch("Sulama kanalları kaz", "Kanallar yardımcı oldu", map[string]int{"gold": -800, "food": 200}),
			ch("Yiyecek depola", "Stoklar güvende", map[string]int{"gold": -500, "food": -200}),
			ch("Bekle ve dua et", "Kuraklık şiddetlendi", map[string]int{"food": -500, "happiness": -10}),
		},
	},

	// Opportunity
	{
		ID: "mine_discovery", Title: "Maden Keşfi", Type: Opportunity, Severity: Major,
		Description: "Dağlarda zengin bir maden yatağı bulundu.",
		Choices: []Choice{
			ch("Hemen işlet", "Maden açıldı", map[string]int{"gold": -1000, "iron": 500, "wood": -200}),
			ch("Padişaha bildir", "Padişah memnun", map[string]int{"loyalty": 15, "favor": 10}),
			ch("Gizli tut", "Riskli bir kazanç", map[string]int{"gold": 2000, "loyalty": -20}),
		},
	},
	{
		ID: "skilled_craftsman", Title: "Usta Zanaatkar", Type: Opportunity, Severity: Minor,
		Description: "Ünlü bir zanaatkar eyaletinize yerleşmek istiyor.",
		Choices: []Choice{
			ch("Karşıla ve destekle", "Usta işini kurdu", map[string]int{"gold": -300, "trade_modifier": 5, "happiness": 5}),
			ch("Sadece izin ver", "Usta kendi başına yerleşti", map[string]int{"trade_modifier": 2}),
			ch("Reddet", "Usta başka yere gitti", nil),
		},
	},
	{
		ID: "silk_road_opening", Title: "İpek Yolu Açılışı", Type: Opportunity, Severity: Major,
		Description: "Doğu ile yeni bir ticaret anlaşması imkânı doğdu.",
		Choices: []Choice{
			ch("Büyük yatırım yap", "Muazzam ticaret başladı", map[string]int{"gold": -1500, "trade_modifier": 25}),
			ch("Küçük yatırım", "Orta düzeyde ticaret", map[string]int{"gold": -500, "trade_modifier": 10}),
			ch("Gözlemle", "Fırsat kaçırıldı", nil),
		},
	},
}
