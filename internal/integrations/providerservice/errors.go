package providerservice

import "errors"

var (
	// ErrProviderNotFound возвращается, когда провайдер не зарегистрирован в каталоге
	ErrProviderNotFound = errors.New("providerservice client: provider not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("providerservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("providerservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Каталог недоступен, вызывающий использует данные из запроса
	ErrServiceDegraded = errors.New("providerservice unavailable: graceful degradation applied")
)
