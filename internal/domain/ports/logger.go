package ports

// Logger é o log estruturado usado por serviços e middlewares.
// args são pares chave/valor; as chaves seguem org_id, user_id, role_id e role.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	// With fixa pares que acompanham todas as mensagens seguintes
	With(args ...any) Logger
}
