package narrate

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	message.SetString(lang, "duel.battle.start", "=== Battle Start ===")
	message.SetString(lang, "duel.battle.end", "=== Battle End ===")
	message.SetString(lang, "duel.status.header", "--- Battle Status ---")
	message.SetString(lang, "duel.status.line", "%s (%s) - HP: %d/%d")
	message.SetString(lang, "duel.status.footer", "--------------------")
	message.SetString(lang, "duel.turn.enemy", "--- Enemy Turn ---")

	message.SetString(lang, "duel.archetype.warrior", "Warrior")
	message.SetString(lang, "duel.archetype.mage", "Mage")
	message.SetString(lang, "duel.archetype.rogue", "Rogue")
	message.SetString(lang, "duel.archetype.enemy", "Enemy")

	message.SetString(lang, "duel.move.warrior.attack", "%s swings their sword!")
	message.SetString(lang, "duel.move.warrior.special", "%s uses Power Strike!")
	message.SetString(lang, "duel.move.mage.attack", "%s casts magic missile!")
	message.SetString(lang, "duel.move.mage.special", "%s casts Fireball!")
	message.SetString(lang, "duel.move.rogue.attack", "%s strikes with daggers!")
	message.SetString(lang, "duel.move.rogue.special", "%s performs a Backstab!")
	message.SetString(lang, "duel.move.enemy.attack", "%s attacks!")
	message.SetString(lang, "duel.move.enemy.special", "%s uses a special attack!")

	message.SetString(lang, "duel.damage", "%s takes %d damage! (Health: %d/%d)")
	message.SetString(lang, "duel.heal", "%s heals for %d HP! (Health: %d/%d)")
	message.SetString(lang, "duel.guard.raise", "%s raises their guard! (Defense + %d)")
	message.SetString(lang, "duel.guard.lower", "%s lowers their guard. (Defense %d)")
	message.SetString(lang, "duel.surrender", "%s surrenders the battle!")
	message.SetString(lang, "duel.victory", "Victory! %s wins!")
	message.SetString(lang, "duel.defeat", "Defeat! %s wins!")

	message.SetString(lang, "duel.menu.attack", "1. Attack")
	message.SetString(lang, "duel.menu.defend", "2. Defend")
	message.SetString(lang, "duel.menu.special", "3. %s (Special)")
	message.SetString(lang, "duel.menu.heal", "4. Heal")
	message.SetString(lang, "duel.menu.quit", "5. Quit")
	message.SetString(lang, "duel.menu.prompt", "Choose action: ")
	message.SetString(lang, "duel.continue", "Press Enter to continue...")

	message.SetString(lang, "duel.class.title", "=== RPG Battle Game ===")
	message.SetString(lang, "duel.class.header", "Choose your class:")
	message.SetString(lang, "duel.class.warrior", "1. Warrior (High HP, High Defense)")
	message.SetString(lang, "duel.class.mage", "2. Mage (High Attack, Low Defense)")
	message.SetString(lang, "duel.class.rogue", "3. Rogue (Balanced, Highest Special)")
	message.SetString(lang, "duel.class.prompt", "Enter choice (1-3): ")
	message.SetString(lang, "duel.class.fallback", "Invalid choice. Defaulting to Warrior.")

	message.SetString(lang, "duel.special.warrior", "Power Strike")
	message.SetString(lang, "duel.special.mage", "Fireball")
	message.SetString(lang, "duel.special.rogue", "Backstab")
	message.SetString(lang, "duel.special.enemy", "Special Attack")
}
