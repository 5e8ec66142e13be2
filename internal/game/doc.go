// Package game implements the blackjack table: dealing from a shoe, the
// player's legal options, resolving each sub-hand and the round loop that
// plays a strategy for a number of hands.
//
// # Basic Usage
//
//	shoe := deck.NewShoe(rules.Decks, rules.Penetration, randutil.New(42))
//	table := game.NewTable(rules, shoe, logger)
//	player := game.NewPlayer(rules.PlayerBalance, strat)
//	g := game.New(table, player, 1000, logger)
//	result, err := g.Run(ctx)
//
// # Deterministic Testing
//
// deck.NewStackedShoe deals cards in a fixed order, which makes individual
// rounds reproducible:
//
//	shoe := deck.NewStackedShoe(deck.MustParseCards("AsTdKh9c"), 1)
//
// Cards are dealt player, dealer up-card, player, dealer hole card. Every
// card except the hole card is shown to the strategy as it is dealt; the hole
// card is shown when it is turned over.
//
// # Money
//
// Stakes leave the player's balance when they are placed. Settling a hand
// returns the stake plus any winnings, so a win credits twice the bet, a
// push credits the bet and a loss credits nothing. The house balance moves
// by the player's net result.
package game
