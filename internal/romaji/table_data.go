package romaji

type baseEntry struct {
	grapheme string
	patterns []string
}

// baseEntries lists hiragana graphemes in table order. The first pattern of
// each entry is the canonical (Hepburn typing) spelling. Katakana, geminate
// and split-contraction entries are derived from these at construction.
var baseEntries = []baseEntry{
	{"あ", []string{"a"}},
	{"い", []string{"i", "yi"}},
	{"う", []string{"u", "wu", "whu"}},
	{"え", []string{"e"}},
	{"お", []string{"o"}},

	{"か", []string{"ka", "ca"}},
	{"き", []string{"ki"}},
	{"く", []string{"ku", "cu", "qu"}},
	{"け", []string{"ke"}},
	{"こ", []string{"ko", "co"}},
	{"が", []string{"ga"}},
	{"ぎ", []string{"gi"}},
	{"ぐ", []string{"gu"}},
	{"げ", []string{"ge"}},
	{"ご", []string{"go"}},

	{"さ", []string{"sa"}},
	{"し", []string{"shi", "si", "ci"}},
	{"す", []string{"su"}},
	{"せ", []string{"se", "ce"}},
	{"そ", []string{"so"}},
	{"ざ", []string{"za"}},
	{"じ", []string{"ji", "zi"}},
	{"ず", []string{"zu"}},
	{"ぜ", []string{"ze"}},
	{"ぞ", []string{"zo"}},

	{"た", []string{"ta"}},
	{"ち", []string{"chi", "ti"}},
	{"つ", []string{"tsu", "tu"}},
	{"て", []string{"te"}},
	{"と", []string{"to"}},
	{"だ", []string{"da"}},
	{"ぢ", []string{"di", "zi"}},
	{"づ", []string{"du", "zu"}},
	{"で", []string{"de"}},
	{"ど", []string{"do"}},

	{"な", []string{"na"}},
	{"に", []string{"ni"}},
	{"ぬ", []string{"nu"}},
	{"ね", []string{"ne"}},
	{"の", []string{"no"}},

	{"は", []string{"ha"}},
	{"ひ", []string{"hi"}},
	{"ふ", []string{"fu", "hu"}},
	{"へ", []string{"he"}},
	{"ほ", []string{"ho"}},
	{"ば", []string{"ba"}},
	{"び", []string{"bi"}},
	{"ぶ", []string{"bu"}},
	{"べ", []string{"be"}},
	{"ぼ", []string{"bo"}},
	{"ぱ", []string{"pa"}},
	{"ぴ", []string{"pi"}},
	{"ぷ", []string{"pu"}},
	{"ぺ", []string{"pe"}},
	{"ぽ", []string{"po"}},

	{"ま", []string{"ma"}},
	{"み", []string{"mi"}},
	{"む", []string{"mu"}},
	{"め", []string{"me"}},
	{"も", []string{"mo"}},

	{"や", []string{"ya"}},
	{"ゆ", []string{"yu"}},
	{"よ", []string{"yo"}},

	{"ら", []string{"ra"}},
	{"り", []string{"ri"}},
	{"る", []string{"ru"}},
	{"れ", []string{"re"}},
	{"ろ", []string{"ro"}},

	{"わ", []string{"wa"}},
	{"ゐ", []string{"wi"}},
	{"ゑ", []string{"we"}},
	{"を", []string{"wo", "o"}},
	{"ん", []string{"n", "nn", "xn"}},
	{"ゔ", []string{"vu"}},

	{"ぁ", []string{"xa", "la"}},
	{"ぃ", []string{"xi", "li"}},
	{"ぅ", []string{"xu", "lu"}},
	{"ぇ", []string{"xe", "le"}},
	{"ぉ", []string{"xo", "lo"}},
	{"ゃ", []string{"xya", "lya"}},
	{"ゅ", []string{"xyu", "lyu"}},
	{"ょ", []string{"xyo", "lyo"}},
	{"ゎ", []string{"xwa", "lwa"}},
	{"ゕ", []string{"xka", "lka"}},
	{"ゖ", []string{"xke", "lke"}},
	{"っ", []string{"xtu", "ltu", "xtsu"}},

	{"きゃ", []string{"kya"}},
	{"きぃ", []string{"kyi"}},
	{"きゅ", []string{"kyu"}},
	{"きぇ", []string{"kye"}},
	{"きょ", []string{"kyo"}},
	{"ぎゃ", []string{"gya"}},
	{"ぎぃ", []string{"gyi"}},
	{"ぎゅ", []string{"gyu"}},
	{"ぎぇ", []string{"gye"}},
	{"ぎょ", []string{"gyo"}},
	{"しゃ", []string{"sha", "sya"}},
	{"しぃ", []string{"syi"}},
	{"しゅ", []string{"shu", "syu"}},
	{"しぇ", []string{"she", "sye"}},
	{"しょ", []string{"sho", "syo"}},
	{"じゃ", []string{"ja", "zya", "jya"}},
	{"じぃ", []string{"zyi", "jyi"}},
	{"じゅ", []string{"ju", "zyu", "jyu"}},
	{"じぇ", []string{"je", "zye", "jye"}},
	{"じょ", []string{"jo", "zyo", "jyo"}},
	{"ちゃ", []string{"cha", "tya", "cya"}},
	{"ちぃ", []string{"tyi", "cyi"}},
	{"ちゅ", []string{"chu", "tyu", "cyu"}},
	{"ちぇ", []string{"che", "tye", "cye"}},
	{"ちょ", []string{"cho", "tyo", "cyo"}},
	{"ぢゃ", []string{"dya"}},
	{"ぢぃ", []string{"dyi"}},
	{"ぢゅ", []string{"dyu"}},
	{"ぢぇ", []string{"dye"}},
	{"ぢょ", []string{"dyo"}},
	{"にゃ", []string{"nya"}},
	{"にぃ", []string{"nyi"}},
	{"にゅ", []string{"nyu"}},
	{"にぇ", []string{"nye"}},
	{"にょ", []string{"nyo"}},
	{"ひゃ", []string{"hya"}},
	{"ひぃ", []string{"hyi"}},
	{"ひゅ", []string{"hyu"}},
	{"ひぇ", []string{"hye"}},
	{"ひょ", []string{"hyo"}},
	{"びゃ", []string{"bya"}},
	{"びぃ", []string{"byi"}},
	{"びゅ", []string{"byu"}},
	{"びぇ", []string{"bye"}},
	{"びょ", []string{"byo"}},
	{"ぴゃ", []string{"pya"}},
	{"ぴぃ", []string{"pyi"}},
	{"ぴゅ", []string{"pyu"}},
	{"ぴぇ", []string{"pye"}},
	{"ぴょ", []string{"pyo"}},
	{"みゃ", []string{"mya"}},
	{"みぃ", []string{"myi"}},
	{"みゅ", []string{"myu"}},
	{"みぇ", []string{"mye"}},
	{"みょ", []string{"myo"}},
	{"りゃ", []string{"rya"}},
	{"りぃ", []string{"ryi"}},
	{"りゅ", []string{"ryu"}},
	{"りぇ", []string{"rye"}},
	{"りょ", []string{"ryo"}},

	{"いぇ", []string{"ye"}},
	{"うぃ", []string{"wi", "whi"}},
	{"うぇ", []string{"we", "whe"}},
	{"うぉ", []string{"who"}},
	{"ゔぁ", []string{"va"}},
	{"ゔぃ", []string{"vi"}},
	{"ゔぇ", []string{"ve"}},
	{"ゔぉ", []string{"vo"}},
	{"ゔゅ", []string{"vyu"}},
	{"ふぁ", []string{"fa", "fwa"}},
	{"ふぃ", []string{"fi", "fwi", "fyi"}},
	{"ふぇ", []string{"fe", "fwe", "fye"}},
	{"ふぉ", []string{"fo", "fwo"}},
	{"ふゅ", []string{"fyu"}},
	{"てぃ", []string{"thi"}},
	{"てゅ", []string{"thu"}},
	{"でぃ", []string{"dhi"}},
	{"でゅ", []string{"dhu"}},
	{"とぅ", []string{"twu"}},
	{"どぅ", []string{"dwu"}},
	{"つぁ", []string{"tsa"}},
	{"つぃ", []string{"tsi"}},
	{"つぇ", []string{"tse"}},
	{"つぉ", []string{"tso"}},
	{"くぁ", []string{"qa", "kwa"}},

	{"ー", []string{"-"}},
	{"、", []string{","}},
	{"。", []string{"."}},
	{"，", []string{","}},
	{"．", []string{"."}},
	{"！", []string{"!"}},
	{"？", []string{"?"}},
	{"「", []string{"["}},
	{"」", []string{"]"}},
	{"・", []string{"/"}},
	{"～", []string{"~"}},
	{"　", []string{" "}},
}

// styleOverrides maps graphemes to the spelling a convention prefers when it
// differs from the Hepburn typing spelling.
var styleOverrides = map[Style]map[string]string{
	Kunrei: {
		"し": "si", "ち": "ti", "つ": "tu", "ふ": "hu", "じ": "zi", "ぢ": "zi", "づ": "zu",
		"しゃ": "sya", "しゅ": "syu", "しょ": "syo",
		"ちゃ": "tya", "ちゅ": "tyu", "ちょ": "tyo",
		"じゃ": "zya", "じゅ": "zyu", "じょ": "zyo",
		"を": "o",
	},
	Nihon: {
		"し": "si", "ち": "ti", "つ": "tu", "ふ": "hu", "じ": "zi", "ぢ": "di", "づ": "du",
		"しゃ": "sya", "しゅ": "syu", "しょ": "syo",
		"ちゃ": "tya", "ちゅ": "tyu", "ちょ": "tyo",
		"じゃ": "zya", "じゅ": "zyu", "じょ": "zyo",
		"を": "wo",
	},
}
