// Package smtp открывает соединения с почтовым сервером.
package smtp

import "io"

// Client минимальный набор команд SMTP, нужный для отправки письма.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface создаёт новые соединения и знает адрес отправителя.
type TransportInterface interface {
	Connect() (Client, error)
	From() string
}
