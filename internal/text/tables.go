package text

// Lookup tables for the lexical pipeline. All read-only after init, safe for
// concurrent use.

var stopwords = map[string]struct{}{
	"apa": {}, "bagaimana": {}, "cara": {}, "untuk": {}, "dan": {}, "atau": {},
	"yang": {}, "dengan": {}, "ke": {}, "dari": {}, "buat": {}, "membuat": {},
	"mengurus": {}, "mendaftar": {}, "mencetak": {}, "dimana": {}, "kapan": {},
	"berapa": {}, "adalah": {}, "itu": {}, "ini": {}, "saya": {}, "kamu": {},
}

// synonyms maps an abbreviation to its expanded forms; expansion keeps the
// abbreviation alongside the expansions so either side of a pair can match.
var synonyms = map[string][]string{
	"ktp":      {"kartu tanda penduduk"},
	"kk":       {"kartu keluarga"},
	"kadis":    {"kepala dinas"},
	"kominfo":  {"dinas komunikasi dan informatika", "diskominfo"},
	"dukcapil": {"dinas kependudukan dan catatan sipil", "disdukcapil"},
	"dishub":   {"dinas perhubungan"},
	"dinkes":   {"dinas kesehatan"},
	"disnaker": {"dinas ketenagakerjaan"},
	"sktm":     {"surat keterangan tidak mampu"},
	"siup":     {"surat izin usaha perdagangan"},
	"umkm":     {"usaha mikro kecil menengah"},
	"pungli":   {"pungutan liar"},
	"bansos":   {"bantuan sosial"},
	"damkar":   {"pemadam kebakaran"},
	"nib":      {"nomor induk berusaha"},
	"nisn":     {"nomor induk siswa nasional"},
}

// Category holds one row of the ordered router table.
type Category struct {
	ID       string
	Name     string
	Keywords []string
}

// categories is scanned in order; the first keyword hit wins. The order is a
// deliberate routing policy (earlier rows shadow later ones), so rows must
// not be re-sorted.
var categories = []Category{
	{
		ID:   "0196f6a8-9cb8-7385-8383-9d4f8fdcd396",
		Name: "Kependudukan",
		Keywords: []string{
			"ktp", "kk", "kartu keluarga", "kartu tanda penduduk",
			"akta", "kelahiran", "kematian", "domisili", "sktm", "nik",
		},
	},
	{
		ID:   "0196ccd1-d7f9-7252-b0a1-a67d4bc103a0",
		Name: "Kesehatan",
		Keywords: []string{
			"bpjs", "rsud", "puskesmas", "klinik", "vaksin", "pengobatan",
			"berobat", "posyandu", "stunting", "imunisasi",
		},
	},
	{
		ID:   "0196cd16-3a0a-726d-99b4-2e9c6dda5f64",
		Name: "Pendidikan",
		Keywords: []string{
			"sekolah", "ppdb", "spmb", "guru", "siswa", "beasiswa",
			"prestasi", "zonasi", "afirmasi", "nisn",
		},
	},
	{
		ID:   "019707b1-ebb6-708f-ad4d-bfc65d05f299",
		Name: "Layanan Masyarakat",
		Keywords: []string{
			"pengaduan", "izin", "siup", "bantuan", "masyarakat", "usaha", "nib",
		},
	},
	{
		ID:   "0196f6b9-ba96-70f1-a930-3b89e763170f",
		Name: "Struktur Organisasi",
		Keywords: []string{
			"kepala dinas", "kadis", "sekretaris", "jabatan", "struktur organisasi",
		},
	},
	{
		ID:   "01970829-1054-72b2-bb31-16a34edd84fc",
		Name: "Peraturan",
		Keywords: []string{
			"aturan", "peraturan", "perwali", "perda", "perpres", "hukum",
		},
	},
	{
		ID:   "0196f6c0-1178-733a-acd8-b8cb62eefe98",
		Name: "Lokasi Fasilitas",
		Keywords: []string{
			"lokasi", "alamat", "kantor", "posisi",
		},
	},
	{
		ID:   "001970853-dd2e-716e-b90c-c4f79270f700",
		Name: "Profil",
		Keywords: []string{
			"tugas", "fungsi", "tupoksi", "profil", "visi", "misi",
		},
	},
}

// nonServiceAreas are place names outside the service area; a query naming
// one is rejected by the hard filter before any external call.
var nonServiceAreas = []string{
	"jakarta", "bandung", "surabaya", "yogyakarta", "semarang",
	"siantar", "pematangsiantar", "pematang siantar",
	"binjai", "tebing", "tebing tinggi", "aceh", "padang",
	"pekanbaru", "riau", "deliserdang", "deli serdang",
	"langkat", "tanjung morawa", "belawan", "labuhanbatu",
}

// opinionWords flag subjective/personal questions that are out of scope for
// a public-services bank.
var opinionWords = []string{
	"rajin", "malas", "ganteng", "cantik", "baik", "buruk",
	"terkenal", "paling", "ter", "terbaik", "terburuk",
	"terjelek", "terbodoh", "terrajin",
}
