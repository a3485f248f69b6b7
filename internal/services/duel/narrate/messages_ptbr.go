package narrate

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.MustParse("pt-BR")

	message.SetString(lang, "duel.battle.start", "=== Início da Batalha ===")
	message.SetString(lang, "duel.battle.end", "=== Fim da Batalha ===")
	message.SetString(lang, "duel.status.header", "--- Situação da Batalha ---")
	message.SetString(lang, "duel.status.line", "%s (%s) - PV: %d/%d")
	message.SetString(lang, "duel.status.footer", "--------------------")
	message.SetString(lang, "duel.turn.enemy", "--- Turno do Inimigo ---")

	message.SetString(lang, "duel.archetype.warrior", "Guerreiro")
	message.SetString(lang, "duel.archetype.mage", "Mago")
	message.SetString(lang, "duel.archetype.rogue", "Ladino")
	message.SetString(lang, "duel.archetype.enemy", "Inimigo")

	message.SetString(lang, "duel.move.warrior.attack", "%s brande a espada!")
	message.SetString(lang, "duel.move.warrior.special", "%s usa Golpe Poderoso!")
	message.SetString(lang, "duel.move.mage.attack", "%s lança um míssil mágico!")
	message.SetString(lang, "duel.move.mage.special", "%s lança Bola de Fogo!")
	message.SetString(lang, "duel.move.rogue.attack", "%s golpeia com adagas!")
	message.SetString(lang, "duel.move.rogue.special", "%s ataca pelas costas!")
	message.SetString(lang, "duel.move.enemy.attack", "%s ataca!")
	message.SetString(lang, "duel.move.enemy.special", "%s usa um ataque especial!")

	message.SetString(lang, "duel.damage", "%s sofre %d de dano! (Vida: %d/%d)")
	message.SetString(lang, "duel.heal", "%s recupera %d PV! (Vida: %d/%d)")
	message.SetString(lang, "duel.guard.raise", "%s ergue a guarda! (Defesa + %d)")
	message.SetString(lang, "duel.guard.lower", "%s baixa a guarda. (Defesa %d)")
	message.SetString(lang, "duel.surrender", "%s se rende!")
	message.SetString(lang, "duel.victory", "Vitória! %s vence!")
	message.SetString(lang, "duel.defeat", "Derrota! %s vence!")

	message.SetString(lang, "duel.menu.attack", "1. Atacar")
	message.SetString(lang, "duel.menu.defend", "2. Defender")
	message.SetString(lang, "duel.menu.special", "3. %s (Especial)")
	message.SetString(lang, "duel.menu.heal", "4. Curar")
	message.SetString(lang, "duel.menu.quit", "5. Desistir")
	message.SetString(lang, "duel.menu.prompt", "Escolha a ação: ")
	message.SetString(lang, "duel.continue", "Pressione Enter para continuar...")

	message.SetString(lang, "duel.class.title", "=== Jogo de Batalha RPG ===")
	message.SetString(lang, "duel.class.header", "Escolha sua classe:")
	message.SetString(lang, "duel.class.warrior", "1. Guerreiro (Muita Vida, Muita Defesa)")
	message.SetString(lang, "duel.class.mage", "2. Mago (Muito Ataque, Pouca Defesa)")
	message.SetString(lang, "duel.class.rogue", "3. Ladino (Equilibrado, Maior Especial)")
	message.SetString(lang, "duel.class.prompt", "Digite a escolha (1-3): ")
	message.SetString(lang, "duel.class.fallback", "Escolha inválida. Usando Guerreiro.")

	message.SetString(lang, "duel.special.warrior", "Golpe Poderoso")
	message.SetString(lang, "duel.special.mage", "Bola de Fogo")
	message.SetString(lang, "duel.special.rogue", "Ataque Furtivo")
	message.SetString(lang, "duel.special.enemy", "Ataque Especial")
}
