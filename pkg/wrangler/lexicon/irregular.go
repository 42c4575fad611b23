package lexicon

// irregular lists lemma first, then forms a suffix stemmer cannot map back.
var irregular = [][]string{
	{"be", "am", "is", "are", "was", "were", "been", "being"},
	{"have", "has", "had", "having"},
	{"do", "does", "did", "done", "doing"},
	{"go", "goes", "went", "gone"},
	{"get", "got", "gotten"},
	{"make", "made"},
	{"take", "took", "taken"},
	{"give", "gave", "given"},
	{"see", "saw", "seen"},
	{"know", "knew", "known"},
	{"think", "thought"},
	{"find", "found"},
	{"tell", "told"},
	{"say", "said"},
	{"pay", "paid"},
	{"buy", "bought"},
	{"send", "sent"},
	{"break", "broke", "broken"},
	{"run", "ran"},
	{"write", "wrote", "written"},
	{"begin", "began", "begun"},
	{"choose", "chose", "chosen"},
	{"forget", "forgot", "forgotten"},
	{"freeze", "froze", "frozen"},
	{"lose", "lost"},
	{"build", "built"},
	{"keep", "kept"},
	{"hold", "held"},
	{"bring", "brought"},
	{"feel", "felt"},
	{"mean", "meant"},
	{"spend", "spent"},
	{"understand", "understood"},
	{"come", "came"},
	{"become", "became"},
	{"show", "shown"},
	{"child", "children"},
	{"person", "people"},
	{"mouse", "mice"},
	{"datum", "data"},
}
