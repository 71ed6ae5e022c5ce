package availability

import "time"

// Engine вычисляет доступность слотов и валидирует новые записи
// Сам ничего не хранит: записи приходят от вызывающего, результат сохраняет хранилище
type Engine struct {
	timeProvider TimeProvider
	idGenerator  IDGenerator
}

// Option настройка движка
type Option func(*Engine)

// WithTimeProvider подменяет источник времени
func WithTimeProvider(p TimeProvider) Option {
	return func(e *Engine) { e.timeProvider = p }
}

// WithIDGenerator подменяет генератор идентификаторов
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) { e.idGenerator = g }
}

// NewEngine создает движок с реальными часами и UUID
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		timeProvider: &RealTimeProvider{},
		idGenerator:  &UUIDGenerator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now возвращает текущее время по часам движка
func (e *Engine) Now() time.Time {
	return e.timeProvider.Now()
}

// IsValidBookingDate проверяет, что дата сегодня или позже (по календарю часов движка)
func (e *Engine) IsValidBookingDate(date string) bool {
	return isValidBookingDate(date, e.timeProvider.Now())
}
