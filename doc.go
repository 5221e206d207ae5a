// Package saarthi is a scripture retrieval engine. It answers questions
// about a corpus of verses by combining exact citation lookup with semantic
// search, and hands the retrieved verses to a language model.
//
// An Engine is opened once per process:
//
//	engine, err := saarthi.Open(ctx, "data/saarthi.db",
//		saarthi.WithAIConfig(ai.NewConfig(ai.WithChatToken(key))))
//	if err != nil {
//		return err
//	}
//	defer engine.Close()
//
//	stats, err := engine.Rebuild(ctx, "data")
//	answer, err := engine.Ask(ctx, saarthi.AskRequest{Query: "What does 2.47 teach?"})
package saarthi
