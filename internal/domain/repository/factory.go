package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Balances() BalanceRepository
	Orders() OrderRepository
	Trades() TradeRepository
	Transactions() TransactionRepository
}
