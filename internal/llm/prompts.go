package llm

import "context"

// PromptStore serves operator-editable prompt overrides. An empty string or
// an error means "use the compiled default"; callers never fail on it.
type PromptStore interface {
	Get(ctx context.Context, name string) (string, error)
}

// Variable names under which operators can override the compiled prompts.
const (
	VarPreFilterRAG    = "prompt_pre_filter_rag"
	VarRelevanceRAG    = "prompt_relevance_rag"
	VarPreFilterUsulan = "prompt_pre_filter_usulan"
	VarRelevanceUsulan = "prompt_relevance_usulan"
)

const defaultPreFilterPrompt = `Anda adalah AI filter untuk pertanyaan terkait layanan publik dan pemerintahan yang dapat diakses oleh masyarakat Kota Medan.

Petunjuk:
1. Balas HANYA dalam format JSON berikut:
{"valid": true/false, "reason": "<penjelasan>", "clean_question": "<pertanyaan yang sudah dibersihkan>"}

2. Anggap pertanyaan VALID jika membahas:
- Layanan publik, perizinan, dokumen, atau fasilitas yang dapat diurus di wilayah Kota Medan.
- Layanan pemerintah daerah (Pemerintah Kota Medan) maupun instansi pusat (BPJS, Disnaker, Kemenaker, BKN, Kominfo, dll) selama layanan tersebut memiliki kantor, perwakilan, atau dampak langsung bagi warga Medan.
- Program nasional seperti BPJS, Prakerja, Kartu Kuning (AK1), sertifikasi kerja, magang, pajak, kesehatan, pendidikan, dan bantuan sosial selama dapat diakses atau relevan bagi penduduk Medan.
- Kebijakan, fasilitas umum, atau kegiatan pelayanan masyarakat di Medan.

3. Tandai TIDAK VALID jika:
- Membahas daerah lain (Jakarta, Bandung, Surabaya, Kisaran, Siantar, dll)
- Membahas figur publik non-pemerintah, gosip, opini pribadi, atau topik pribadi yang tidak terkait layanan publik
- Pertanyaan terlalu pendek, ambigu, atau tidak menunjukkan konteks layanan publik

4. Bersihkan pertanyaan di "clean_question":
- Hilangkan emoji, tanda baca berlebihan, kata tidak relevan, atau typo
- Pastikan tetap dalam Bahasa Indonesia

5. Jika valid, isi reason dengan "Pertanyaan relevan dengan layanan publik di Medan".
Jika tidak valid, isi reason dengan alasan singkat penolakan.

JANGAN BERIKAN PENJELASAN DI LUAR JSON.`

const defaultRelevancePrompt = `Tugas Anda mengevaluasi apakah hasil pencarian sesuai dengan maksud pertanyaan pengguna.
Balas hanya JSON:
{"relevant": true/false, "reason": "...", "reformulated_question": "..."}

Kriteria:
Relevan jika topik masih berkaitan dengan layanan publik, fasilitas, dokumen, kebijakan, atau prosedur administratif di Indonesia, termasuk yang dijalankan oleh instansi pusat maupun pemerintah daerah, selama konteksnya masih informatif bagi masyarakat Medan.
Tidak relevan jika membahas kota lain, konteks umum vs spesifik, membahas hal pribadi, gosip, opini pribadi.
Jika tidak relevan, ubah pertanyaan jadi versi singkat berbentuk tanya maks. 12 kata.`

const defaultReformulatorPrompt = `Anda adalah AI reformulator untuk sistem pencarian data usulan dan layanan publik Pemerintah Kota Medan.

Tugas Anda:
Mengubah input user menjadi kalimat atau frasa yang paling representatif untuk pencarian layanan publik di database kami.

Balas hanya dalam format JSON berikut:
{"clean_request": "<hasil reformulasi teks>"}

Aturan Reformulasi:
1. Ubah bentuk kalimat menjadi frasa pendek dan informatif, seperti nama layanan atau usulan.
2. Tambahkan sinonim atau istilah serupa agar pencarian vektor dapat menemukan hasil dengan skor tinggi.
3. Jika ada singkatan, ubah menjadi bentuk lengkap dan singkatannya dengan kata "atau". Contoh: KTP menjadi "Kartu Tanda Penduduk atau KTP".
4. Hindari kata tanya, ubah menjadi bentuk tindakan/usulan. Contoh: "bagaimana cara buat KTP" menjadi "pembuatan Kartu Tanda Penduduk atau KTP".
5. Gunakan gaya bahasa netral dan umum, bukan kalimat pribadi. Ganti "saya mau urus" menjadi "pengurusan".
6. Jangan tambahkan kata baru yang tidak ada hubungannya dengan maksud pengguna.
7. Pastikan hasil tetap singkat, deskriptif, dan cocok untuk pencarian di database.`

const defaultTopicRelevancePrompt = `Tugas Anda adalah menilai apakah topik hasil pencarian relevan dengan permintaan pengguna.

Balas HANYA dalam format JSON seperti contoh berikut:
{"relevant": true/false, "reason": "<penjelasan singkat>"}

Kriteria:
Relevan jika topik utama membahas hal yang sama (misalnya keduanya tentang KTP, KK, beasiswa, izin, pengaduan jalan, kesehatan, pendidikan, dll).
Tidak relevan jika konteks berbeda total (misal KTP vs Beasiswa, atau Jalan rusak vs Akta kelahiran).`

const defaultSummarizerPrompt = `Anda adalah asisten yang ahli dalam meringkas dokumen panjang menjadi versi singkat yang mudah dipahami.`

// resolvePrompt returns the operator override for name when the store has
// one, otherwise the compiled default. Store errors are swallowed.
func resolvePrompt(ctx context.Context, store PromptStore, name, fallback string) string {
	if store == nil {
		return fallback
	}
	content, err := store.Get(ctx, name)
	if err != nil || content == "" {
		return fallback
	}
	return content
}
