package providerservice

// Provider модель провайдера из каталога (зоомагазин, ветклиника, выгульщик)
type Provider struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// ErrorResponse модель ошибки от каталога провайдеров
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
