package widget

import (
	"fmt"
	"time"
)

const (
	// DefaultMaxFileSize is the largest file the widget will submit.
	DefaultMaxFileSize int64 = 5 * 1024 * 1024
	// DefaultResetDelay is how long the success banner stays up.
	DefaultResetDelay = 3000 * time.Millisecond
)

// User-facing captions.
const (
	SubmitLabel         = "Enviar Currículo"
	SubmittingLabel     = "Enviando..."
	NoFileSelectedAlert = "Por favor, selecione um arquivo antes de enviar."
	ServerRejectedAlert = "Erro ao enviar currículo. Tente novamente."
	ConnectionAlert     = "Erro ao conectar com o servidor. Verifique se o backend está rodando."
	NotFoundPlaceholder = "Não encontrado"
	SuccessMessage      = "Currículo enviado com sucesso!"
	emptyIcon           = "📄"
	emptyText           = "Clique ou arraste seu currículo aqui"
	emptyHintFormat     = "PDF, DOC ou DOCX (máx. %s)"
	selectedIcon        = "✅"
	selectedText        = "Currículo adicionado com sucesso!"
	selectedHint        = "Clique para alterar o arquivo"
	fileTooLargeFormat  = "O arquivo é muito grande. Tamanho máximo: %s"
	fileInfoFormat      = "✓ %s (%.2f KB)"
	labelName           = "Nome"
	labelEmail          = "Email"
	labelPhone          = "Telefone"
	labelSkills         = "Habilidades"
	labelRole           = "Cargo desejado"
	labelExperience     = "Experiência (anos)"
	labelEducation      = "Formação"
	bytesPerMegabyte    = 1024 * 1024
)

// FileTooLargeAlert returns the alert shown when a file exceeds limit bytes.
func FileTooLargeAlert(limit int64) string {
	return fmt.Sprintf(fileTooLargeFormat, sizeLabel(limit))
}

// sizeLabel formats a byte limit the way the hint text does ("5MB").
func sizeLabel(limit int64) string {
	if limit%bytesPerMegabyte == 0 {
		return fmt.Sprintf("%dMB", limit/bytesPerMegabyte)
	}
	return fmt.Sprintf("%.1fMB", float64(limit)/bytesPerMegabyte)
}
