package efi

// PixCalendario define o calendário de uma cobrança PIX
type PixCalendario struct {
	Criacao   string `json:"criacao,omitempty"`
	Expiracao int    `json:"expiracao"` // Tempo em segundos até expirar
}

// PixDevedor representa os dados do devedor/pagador
type PixDevedor struct {
	CPF  string `json:"cpf,omitempty"`
	CNPJ string `json:"cnpj,omitempty"`
	Nome string `json:"nome,omitempty"`
}

// PixValor representa o valor da cobrança
type PixValor struct {
	Original string `json:"original"` // Valor como string com 2 casas decimais (ex: "100.00")
}

// PixCobRequest representa uma requisição para criar cobrança PIX imediata
type PixCobRequest struct {
	Calendario     PixCalendario `json:"calendario"`
	Devedor        *PixDevedor   `json:"devedor,omitempty"`
	Valor          PixValor      `json:"valor"`
	Chave          string        `json:"chave"` // Chave PIX do recebedor
	SolicitacaoPag string        `json:"solicitacaoPagador,omitempty"`
}

// PixDevolucaoRequest representa a requisição de devolução
type PixDevolucaoRequest struct {
	Valor string `json:"valor"` // Valor a devolver
}

// APIError representa um erro retornado pela API Efí
type APIError struct {
	Nome     string `json:"nome"`
	Mensagem string `json:"mensagem"`
	Title    string `json:"title,omitempty"`
	Status   int    `json:"status,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// Error implementa a interface error
func (e *APIError) Error() string {
	if e.Mensagem != "" {
		return e.Mensagem
	}
	if e.Detail != "" {
		return e.Detail
	}
	return e.Nome
}
