// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package profile

// Choices offered by the record forms. The API stores the selected value
// verbatim.
var (
	Genders = []string{"male", "female"}

	PositionTypes = []string{"internship", "job"}

	EnglishLevels = []string{"basic", "intermediate", "advanced", "fluent"}

	EducationLevels = []string{
		"มัธยมศึกษาตอนต้น",
		"มัธยมศึกษาตอนปลาย",
		"ประกาศนียบัตรวิชาชีพ (ปวช.)",
		"ประกาศนียบัตรวิชาชีพชั้นสูง (ปวส.)",
		"ปริญญาตรี",
		"ปริญญาโท",
		"ปริญญาเอก",
	}

	EducationStatuses = []string{"studying", "graduated"}

	Provinces = []string{
		"กรุงเทพมหานคร", "กระบี่", "กาญจนบุรี", "กาฬสินธุ์", "กำแพงเพชร",
		"ขอนแก่น", "จันทบุรี", "ฉะเชิงเทรา", "ชลบุรี", "ชัยนาท",
		"ชัยภูมิ", "ชุมพร", "เชียงราย", "เชียงใหม่", "ตรัง",
		"ตราด", "ตาก", "นครนายก", "นครปฐม", "นครพนม",
		"นครราชสีมา", "นครศรีธรรมราช", "นครสวรรค์", "นนทบุรี", "นราธิวาส",
		"น่าน", "บึงกาฬ", "บุรีรัมย์", "ปทุมธานี", "ประจวบคีรีขันธ์",
		"ปราจีนบุรี", "ปัตตานี", "พระนครศรีอยุธยา", "พะเยา", "พังงา",
		"พัทลุง", "พิจิตร", "พิษณุโลก", "เพชรบุรี", "เพชรบูรณ์",
		"แพร่", "ภูเก็ต", "มหาสารคาม", "มุกดาหาร", "แม่ฮ่องสอน",
		"ยโสธร", "ยะลา", "ร้อยเอ็ด", "ระนอง", "ระยอง",
		"ราชบุรี", "ลพบุรี", "ลำปาง", "ลำพูน", "เลย",
		"ศรีสะเกษ", "สกลนคร", "สงขลา", "สตูล", "สมุทรปราการ",
		"สมุทรสงคราม", "สมุทรสาคร", "สระแก้ว", "สระบุรี", "สิงห์บุรี",
		"สุโขทัย", "สุพรรณบุรี", "สุราษฎร์ธานี", "สุรินทร์", "หนองคาย",
		"หนองบัวลำภู", "อ่างทอง", "อำนาจเจริญ", "อุดรธานี", "อุตรดิตถ์",
		"อุทัยธานี", "อุบลราชธานี",
	}
)
